package models

import "github.com/shopspring/decimal"

// MenuItem is one catalog entry. (Category, Name) is unique; the same name may
// appear in several categories at different prices.
type MenuItem struct {
	Category string
	Name     string
	Price    decimal.Decimal
}

// Key returns the draft aggregation key of the item.
func (m MenuItem) Key() ItemKey {
	return ItemKey{Name: m.Name, Price: m.Price}
}

// Category groups items in declaration order.
type Category struct {
	Name  string
	Items []MenuItem
}

// ItemKey identifies a draft line: item name plus unit price.
type ItemKey struct {
	Name  string
	Price decimal.Decimal
}

// ID is a comparable form of the key, usable as a map key.
func (k ItemKey) ID() string {
	return k.Name + "\x00" + k.Price.StringFixed(2)
}
