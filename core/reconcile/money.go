package reconcile

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// RoundPennies rounds v to two decimal places.
func RoundPennies(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatMoney renders amount in currency with its symbol, e.g. "£12.50".
func FormatMoney(amount float64, currency string) string {
	cur := money.New(0, currency).Currency()
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
