package ingest

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// amountPattern extracts the first signed or unsigned decimal number from a
// cell, after comma decimal separators have been replaced with dots.
var amountPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// parseAmount coerces a raw cell to a signed decimal amount. Unparsable cells
// yield an invalid NullDecimal; they are recovered per-field, not fatal.
func parseAmount(raw string) decimal.NullDecimal {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	m := amountPattern.FindString(s)
	if m == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// dayFirstLayouts are tried in order. Single-digit layout fragments also
// accept zero-padded values, so "02/01/2006" is covered by "2/1/2006".
var dayFirstLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/06",
}

// parseDate parses a calendar date day-first. Absent or unparsable cells
// become a nil date rather than failing the row.
func parseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dayFirstLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}
