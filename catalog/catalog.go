package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"tamo-orders/models"

	"github.com/shopspring/decimal"
)

//go:embed menu.json
var menuJSON []byte

type jsonCategory struct {
	Category string     `json:"category"`
	Items    []jsonItem `json:"items"`
}

type jsonItem struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Catalog is the read-only menu. Category order and item order are preserved.
type Catalog struct {
	categories []models.Category
	keys       []models.ItemKey
}

// Default returns the embedded Mister TAMO menu.
func Default() (*Catalog, error) {
	return Parse(menuJSON)
}

// Parse decodes a JSON array of {category, items:[{name, price}]}.
func Parse(data []byte) (*Catalog, error) {
	var raw []jsonCategory
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("menu has no categories")
	}

	c := &Catalog{}
	seenKey := make(map[string]bool)
	seenCat := make(map[string]bool)
	for _, rc := range raw {
		catName := strings.TrimSpace(rc.Category)
		if catName == "" {
			return nil, fmt.Errorf("category name is required")
		}
		if seenCat[catName] {
			return nil, fmt.Errorf("duplicate category %q", catName)
		}
		seenCat[catName] = true

		cat := models.Category{Name: catName}
		seenName := make(map[string]bool)
		for _, ri := range rc.Items {
			name := strings.TrimSpace(ri.Name)
			if name == "" {
				return nil, fmt.Errorf("%s: item name is required", catName)
			}
			if seenName[name] {
				return nil, fmt.Errorf("%s: duplicate item %q", catName, name)
			}
			seenName[name] = true

			price, err := decimal.NewFromString(ri.Price)
			if err != nil {
				return nil, fmt.Errorf("%s / %s: invalid price %q: %w", catName, name, ri.Price, err)
			}
			if price.IsNegative() {
				return nil, fmt.Errorf("%s / %s: price must be >= 0", catName, name)
			}
			if !price.Equal(price.Round(2)) {
				return nil, fmt.Errorf("%s / %s: price %s has more than 2 decimals", catName, name, ri.Price)
			}

			item := models.MenuItem{Category: catName, Name: name, Price: price}
			cat.Items = append(cat.Items, item)
			if id := item.Key().ID(); !seenKey[id] {
				seenKey[id] = true
				c.keys = append(c.keys, item.Key())
			}
		}
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

func (c *Catalog) Categories() []models.Category {
	return c.categories
}

// Category returns the category at index i.
func (c *Catalog) Category(i int) (models.Category, bool) {
	if i < 0 || i >= len(c.categories) {
		return models.Category{}, false
	}
	return c.categories[i], true
}

// Item returns item j of category i.
func (c *Catalog) Item(i, j int) (models.MenuItem, bool) {
	cat, ok := c.Category(i)
	if !ok || j < 0 || j >= len(cat.Items) {
		return models.MenuItem{}, false
	}
	return cat.Items[j], true
}

// Keys returns the distinct (name, price) keys in first-occurrence order.
func (c *Catalog) Keys() []models.ItemKey {
	return c.keys
}
