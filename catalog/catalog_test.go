package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMenu(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	cats := c.Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, "Aperitivo", cats[0].Name)
	assert.Equal(t, "Tea & Infusions", cats[len(cats)-1].Name)

	first, ok := c.Item(0, 0)
	require.True(t, ok)
	assert.Equal(t, "Formula Gajardo (Apericena)", first.Name)
	assert.Equal(t, "15.00", first.Price.StringFixed(2))
}

func TestKeysDeduplicateSharedNameAndPrice(t *testing.T) {
	c, err := Parse([]byte(`[
		{"category": "Brunch", "items": [{"name": "Pancakes", "price": "7.00"}, {"name": "Waffle", "price": "7"}]},
		{"category": "Dolci", "items": [{"name": "Pancakes", "price": "7.0"}, {"name": "Waffle", "price": "8.00"}]}
	]`))
	require.NoError(t, err)

	keys := c.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "Pancakes", keys[0].Name)
	assert.Equal(t, "Waffle", keys[1].Name)
	assert.Equal(t, "7.00", keys[1].Price.StringFixed(2))
	assert.Equal(t, "Waffle", keys[2].Name)
	assert.Equal(t, "8.00", keys[2].Price.StringFixed(2))
}

func TestParseRejectsInvalidMenus(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `{`},
		{"empty", `[]`},
		{"blank category", `[{"category": " ", "items": []}]`},
		{"duplicate category", `[{"category": "A", "items": []}, {"category": "A", "items": []}]`},
		{"blank item", `[{"category": "A", "items": [{"name": "", "price": "1.00"}]}]`},
		{"duplicate item", `[{"category": "A", "items": [{"name": "X", "price": "1"}, {"name": "X", "price": "2"}]}]`},
		{"bad price", `[{"category": "A", "items": [{"name": "X", "price": "abc"}]}]`},
		{"negative price", `[{"category": "A", "items": [{"name": "X", "price": "-1"}]}]`},
		{"three decimals", `[{"category": "A", "items": [{"name": "X", "price": "1.005"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestItemOutOfRange(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	_, ok := c.Item(-1, 0)
	assert.False(t, ok)
	_, ok = c.Item(0, 1000)
	assert.False(t, ok)
	_, ok = c.Category(len(c.Categories()))
	assert.False(t, ok)
}
