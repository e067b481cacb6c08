// Package finance holds the money arithmetic for the ledger.
package finance

import "github.com/shopspring/decimal"

// Commission computes amount × rate ÷ 100 rounded half-up to 2 decimal
// places. The result is frozen on the transaction row; later rate changes
// on the professional never rewrite it.
func Commission(amount decimal.Decimal, ratePercent float64) decimal.Decimal {
	rate := decimal.NewFromFloat(ratePercent)
	return amount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

// ValidRate bounds a commission percentage to [0,100].
func ValidRate(ratePercent float64) bool {
	return ratePercent >= 0 && ratePercent <= 100
}
