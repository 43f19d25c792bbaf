// Package types holds the fixed-point helpers shared by documents.
package types

import (
	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits of prices, quantities and totals.
const AmountScale int32 = 2

// FormatDecimal rounds d half away from zero to two fractional digits.
func FormatDecimal(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// OrZero unwraps a nullable decimal, treating NULL as 0.
func OrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// FitsNumeric reports whether d fits NUMERIC(precision, AmountScale).
func FitsNumeric(d decimal.Decimal, precision int32) bool {
	limit := decimal.New(1, precision-AmountScale)
	return d.Abs().Round(AmountScale).LessThan(limit)
}
