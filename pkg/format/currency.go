// Package format provides display helpers for monetary figures.
package format

import (
	"fmt"
	"math"
	"strings"
)

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 && math.Abs(amount) >= 0.005 {
		sign = "-"
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	return sign + formatted
}

// Cell formats a nullable table value; unset cells are empty.
func Cell(value *float64) string {
	if value == nil {
		return ""
	}
	return NumericCurrency(*value)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
