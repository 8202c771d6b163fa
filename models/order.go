package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRecord is one persisted order line. LineTotal is fixed at write time.
type LedgerRecord struct {
	ID           string // empty for rows imported from files without an id column
	CustomerName string
	Item         string
	UnitPrice    decimal.Decimal
	Quantity     int
	LineTotal    decimal.Decimal
	SubmittedAt  time.Time
}

type DraftEntry struct {
	Key      ItemKey
	Quantity int
}

type SummaryLine struct {
	ItemName  string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

type DraftSummary struct {
	Lines []SummaryLine
	Total decimal.Decimal
}

type ItemTotal struct {
	Item          string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

type LedgerSummary struct {
	PerItem    []ItemTotal
	GrandTotal decimal.Decimal
	Customers  int // distinct customer names
}
