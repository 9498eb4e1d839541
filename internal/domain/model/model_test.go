package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestTransaction_IsDebit(t *testing.T) {
	assert.True(t, (&Transaction{Amount: amount("-10.00")}).IsDebit())
	assert.False(t, (&Transaction{Amount: amount("10.00")}).IsDebit())
	assert.False(t, (&Transaction{Amount: amount("0")}).IsDebit())
	assert.False(t, (&Transaction{}).IsDebit())
}

func TestInvoiceKey(t *testing.T) {
	date := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	key := InvoiceKey(&date, "ACME SL", "F-100", amount("120.5"))
	assert.Equal(t, "2024-03-12|ACME SL|F-100|120.50", key)

	// Missing date and amount fall back to sentinels.
	key = InvoiceKey(nil, UnknownVendor, "0", decimal.NullDecimal{})
	assert.Equal(t, "1900-01-01|(desconocido)|0|NaN", key)
}

func TestInvoiceKey_IdenticalRowsCollapse(t *testing.T) {
	date := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	a := InvoiceKey(&date, "ACME", "F-1", amount("10.00"))
	b := InvoiceKey(&date, "ACME", "F-1", amount("10.000"))
	assert.Equal(t, a, b)
}

func TestNormalizeVendorKey(t *testing.T) {
	assert.Equal(t, "ACME SL", NormalizeVendorKey("  acme sl "))
	assert.Equal(t, "", NormalizeVendorKey("   "))
}
