package services

import "github.com/shopspring/decimal"

// LineTotal is unitPrice*quantity rounded half-up to cents.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func FormatEuro(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " €"
}
