package services

import (
	"fmt"
	"strings"

	"tamo-orders/models"

	"github.com/shopspring/decimal"
)

func SummarizeDraft(d *Draft) (models.DraftSummary, error) {
	return SummarizeEntries(d.NonZeroEntries())
}

// SummarizeEntries computes per-line totals and the order total. Zero
// quantities are skipped; negative ones fail with ErrValidation.
func SummarizeEntries(entries []models.DraftEntry) (models.DraftSummary, error) {
	s := models.DraftSummary{Lines: []models.SummaryLine{}, Total: decimal.Zero}
	for _, e := range entries {
		if e.Quantity < 0 {
			return models.DraftSummary{}, fmt.Errorf("%w: negative quantity %d for %q", ErrValidation, e.Quantity, e.Key.Name)
		}
		if e.Quantity == 0 {
			continue
		}
		lt := LineTotal(e.Key.Price, e.Quantity)
		s.Lines = append(s.Lines, models.SummaryLine{
			ItemName:  e.Key.Name,
			UnitPrice: e.Key.Price,
			Quantity:  e.Quantity,
			LineTotal: lt,
		})
		s.Total = s.Total.Add(lt)
	}
	s.Total = s.Total.Round(2)
	return s, nil
}

// SummarizeLedger groups records by item name in first-seen order. Revenue
// sums the stored line totals; prices are not re-applied.
func SummarizeLedger(records []models.LedgerRecord) models.LedgerSummary {
	s := models.LedgerSummary{PerItem: []models.ItemTotal{}, GrandTotal: decimal.Zero}
	index := make(map[string]int)
	customers := make(map[string]bool)
	for _, r := range records {
		i, ok := index[r.Item]
		if !ok {
			i = len(s.PerItem)
			index[r.Item] = i
			s.PerItem = append(s.PerItem, models.ItemTotal{Item: r.Item, TotalRevenue: decimal.Zero})
		}
		s.PerItem[i].TotalQuantity += r.Quantity
		s.PerItem[i].TotalRevenue = s.PerItem[i].TotalRevenue.Add(r.LineTotal)
		s.GrandTotal = s.GrandTotal.Add(r.LineTotal)
		customers[strings.ToLower(strings.TrimSpace(r.CustomerName))] = true
	}
	s.Customers = len(customers)
	s.GrandTotal = s.GrandTotal.Round(2)
	return s
}
