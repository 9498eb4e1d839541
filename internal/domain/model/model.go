// Package model defines the canonical records shared by the ingest,
// reconciliation and claim packages.
//
// Records are created once per run from raw tabular input and stay immutable
// except for the match-state fields the reconciliation engine fills in.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownVendor is the sentinel used when an invoice source has no vendor column.
const UnknownVendor = "(desconocido)"

// nullDateSentinel stands in for a missing invoice date inside invoice keys.
const nullDateSentinel = "1900-01-01"

// Transaction is a normalized bank statement row.
type Transaction struct {
	ID          int
	Date        *time.Time
	Description string
	// Amount is invalid when the source cell could not be parsed; such rows
	// are never matching candidates.
	Amount    decimal.NullDecimal
	AbsAmount decimal.NullDecimal

	// Match state, owned by the reconciliation engine.
	Matched       bool
	InvoiceKey    string
	Vendor        string
	InvoiceNumber string

	// Classification state.
	RuleCategory   string
	UserCategory   string
	AICategory     string
	ProbableVendor string
	IsInvoice      bool
}

// IsDebit reports whether the transaction is money leaving the account.
// Transactions with an unparsable amount are not debits.
func (t *Transaction) IsDebit() bool {
	return t.Amount.Valid && t.Amount.Decimal.IsNegative()
}

// Invoice is a normalized supplier invoice row.
type Invoice struct {
	Date          *time.Time
	Amount        decimal.NullDecimal
	Vendor        string
	InvoiceNumber string
	Key           string
	Used          bool
}

// InvoiceKey derives the deterministic composite identity of an invoice row.
// Rows with identical date, vendor, number and amount collapse to the same key
// and are consumable only once during reconciliation.
func InvoiceKey(date *time.Time, vendor, number string, amount decimal.NullDecimal) string {
	d := nullDateSentinel
	if date != nil {
		d = date.Format("2006-01-02")
	}
	a := "NaN"
	if amount.Valid {
		a = amount.Decimal.StringFixed(2)
	}
	return d + "|" + vendor + "|" + number + "|" + a
}

// VendorEntry is a row of the optional vendor contact directory.
type VendorEntry struct {
	Vendor string
	Email  string
	Key    string
}

// NormalizeVendorKey builds the case- and whitespace-insensitive join key used
// to look vendors up in the directory.
func NormalizeVendorKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
