// Package money pins the fixed-point arithmetic used for every currency
// amount in the system: 2 fractional digits, half-up rounding.
package money

import "github.com/shopspring/decimal"

// Scale is the number of fractional digits carried by money values.
const Scale = 2

// Zero is the zero amount.
var Zero = decimal.Zero

// Round2 rounds d half-up to 2 decimal places. Every multiplication or
// division that produces a money value must go through this, or allocation
// totals drift from the schedule.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// FromString parses a fixed-point amount. Invalid input returns an error from
// the underlying decimal parser.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a fixed-point amount and panics on invalid input.
// Only for constants and tests.
func MustFromString(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
