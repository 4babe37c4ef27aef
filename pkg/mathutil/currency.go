// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/plan-autofill/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero on the decimal representation of the value,
// so 1.005 becomes 1.01 rather than the binary-float 1.00.
func Round(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return decimal.NewFromFloat(val).Round(constants.DecimalPlaces).InexactFloat64()
}

// RoundPtr rounds a value and returns a pointer to it, for nullable table cells.
func RoundPtr(val float64) *float64 {
	rounded := Round(val)
	return &rounded
}

// Sum adds values using decimal arithmetic so totals of rounded figures stay exact.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Grow applies a growth rate to a value, e.g. Grow(100, 0.08) = 108.
func Grow(value, rate float64) float64 {
	return value * (1 + rate)
}
