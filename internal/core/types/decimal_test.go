package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "12.35", FormatDecimal(decimal.RequireFromString("12.345")).StringFixed(2))
	assert.Equal(t, "-0.01", FormatDecimal(decimal.RequireFromString("-0.005")).StringFixed(2))
	assert.True(t, FormatDecimal(decimal.RequireFromString("3")).Equal(decimal.RequireFromString("3.00")))
}

func TestOrZero(t *testing.T) {
	assert.True(t, OrZero(decimal.NullDecimal{}).IsZero())
	assert.True(t, OrZero(decimal.NewNullDecimal(decimal.RequireFromString("1.5"))).Equal(decimal.RequireFromString("1.5")))
}

func TestFitsNumeric(t *testing.T) {
	assert.True(t, FitsNumeric(decimal.RequireFromString("999999.99"), 8))
	assert.False(t, FitsNumeric(decimal.RequireFromString("1000000"), 8))
	assert.False(t, FitsNumeric(decimal.RequireFromString("-1000000.00"), 8))
}
