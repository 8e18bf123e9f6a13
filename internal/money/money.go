// Package money provides decimal helpers for currency amounts.
//
// All balance math in tabmate runs on shopspring decimals so accumulation
// never drifts; rounding to cents happens only at the boundary (display,
// persistence of user-entered amounts). Comparisons against zero use the
// Epsilon tolerance shared with the settlement reducer.
package money

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used for zero-comparisons throughout the
// engine. Balances within +-Epsilon of zero are treated as settled.
// The reducer and the balance calculator must agree on this value.
var Epsilon = decimal.New(1, -2) // 0.01

// HalfCent guards classification at the exact-payment boundary.
var HalfCent = decimal.New(5, -3) // 0.005

// Round2 rounds an amount to cent precision.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders an amount with exactly two fraction digits, the wire
// representation for all monetary values.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Parse converts a decimal string (e.g. "12.34") into an amount.
func Parse(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// IsSettled reports whether a balance is close enough to zero to be
// considered cleared.
func IsSettled(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Epsilon)
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if b.LessThan(a) {
		return b
	}
	return a
}
