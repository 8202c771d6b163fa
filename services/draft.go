package services

import (
	"fmt"

	"tamo-orders/models"
)

// Draft holds one user's unsaved quantities, keyed by item name and price.
// Entries iterate in catalog order. Zero quantities are never stored.
type Draft struct {
	keys  []models.ItemKey
	known map[string]bool
	qty   map[string]int
}

// NewDraft creates an empty draft over the given catalog keys.
func NewDraft(keys []models.ItemKey) *Draft {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k.ID()] = true
	}
	return &Draft{keys: keys, known: known, qty: make(map[string]int)}
}

// SetQuantity sets the quantity for key. Zero removes the entry.
func (d *Draft) SetQuantity(key models.ItemKey, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: quantity for %q must be >= 0, got %d", ErrValidation, key.Name, qty)
	}
	if !d.known[key.ID()] {
		return fmt.Errorf("%w: unknown item %q at %s", ErrValidation, key.Name, FormatEuro(key.Price))
	}
	if qty == 0 {
		delete(d.qty, key.ID())
		return nil
	}
	d.qty[key.ID()] = qty
	return nil
}

func (d *Draft) Quantity(key models.ItemKey) int {
	return d.qty[key.ID()]
}

// NonZeroEntries returns the entries with quantity > 0 in catalog order.
func (d *Draft) NonZeroEntries() []models.DraftEntry {
	if len(d.qty) == 0 {
		return nil
	}
	entries := make([]models.DraftEntry, 0, len(d.qty))
	for _, k := range d.keys {
		if q := d.qty[k.ID()]; q > 0 {
			entries = append(entries, models.DraftEntry{Key: k, Quantity: q})
		}
	}
	return entries
}

func (d *Draft) IsEmpty() bool {
	return len(d.qty) == 0
}

func (d *Draft) Reset() {
	d.qty = make(map[string]int)
}
