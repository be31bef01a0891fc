package domain

import "github.com/shopspring/decimal"

// Epsilon is the rounding tolerance for two-decimal amounts: two amounts
// closer than this are considered equal by the auditor and reconciler.
var Epsilon = decimal.New(1, -2) // 0.01

// Round2 normalizes an amount to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinEpsilon reports whether two amounts differ by less than Epsilon.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Epsilon)
}

// Percent applies pct (expressed as 5.0 for 5%) to amount, rounded to two
// decimals.
func Percent(amount decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(pct).Div(decimal.NewFromInt(100)))
}
