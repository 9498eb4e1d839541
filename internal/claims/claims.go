// Package claims turns unmatched debits into actionable follow-ups: a
// human-readable request-for-invoice message plus the probable vendor's
// contact info from the directory.
package claims

import (
	"fmt"

	"github.com/eshaffer321/conciliador/internal/classifier"
	"github.com/eshaffer321/conciliador/internal/domain/model"
)

// Directory is the vendor contact book, keyed by normalized vendor name.
// Lookups are exact on the key; there is no fuzzy matching.
type Directory struct {
	byKey map[string]*model.VendorEntry
}

// NewDirectory indexes directory entries. Later entries win on key collisions.
func NewDirectory(entries []*model.VendorEntry) *Directory {
	d := &Directory{byKey: make(map[string]*model.VendorEntry, len(entries))}
	for _, e := range entries {
		d.byKey[e.Key] = e
	}
	return d
}

// Lookup resolves a vendor name (any casing/whitespace) to a directory entry.
func (d *Directory) Lookup(vendor string) (*model.VendorEntry, bool) {
	e, ok := d.byKey[model.NormalizeVendorKey(vendor)]
	return e, ok
}

// Claim is a presentation row for one unmatched debit: the claim itself, its
// probable vendor and e-mail, and the message to send.
type Claim struct {
	Transaction *model.Transaction
	Vendor      string
	Email       string
	Message     string
}

// ProbableVendor picks the vendor name a claim should be addressed to: the AI
// suggestion when present, otherwise whatever vendor the transaction carries.
func ProbableVendor(tx *model.Transaction) string {
	if tx.ProbableVendor != "" {
		return tx.ProbableVendor
	}
	return tx.Vendor
}

// IsClaimable reports whether a claim looks like a missing supplier invoice,
// preferring the AI verdict over the rule label when one exists.
func IsClaimable(tx *model.Transaction) bool {
	if tx.AICategory != "" {
		return tx.IsInvoice || tx.AICategory == classifier.CategorySupplierInvoice
	}
	return tx.RuleCategory == classifier.CategorySupplierInvoice
}

// Build assembles presentation rows for the claimable subset of the given
// claims. A nil directory only disables e-mail lookups.
func Build(unmatched []*model.Transaction, dir *Directory) []Claim {
	var out []Claim
	for _, tx := range unmatched {
		if !IsClaimable(tx) {
			continue
		}
		c := Claim{
			Transaction: tx,
			Vendor:      ProbableVendor(tx),
		}
		if dir != nil && c.Vendor != "" {
			if e, ok := dir.Lookup(c.Vendor); ok {
				c.Email = e.Email
				if c.Vendor == "" {
					c.Vendor = e.Vendor
				}
			}
		}
		c.Message = Message(tx, c.Vendor)
		out = append(out, c)
	}
	return out
}

// Message builds the Spanish request-for-invoice text for one claim.
func Message(tx *model.Transaction, vendor string) string {
	dateTxt := ""
	if tx.Date != nil {
		dateTxt = tx.Date.Format("02/01/2006")
	}
	amount := "0.00"
	if tx.AbsAmount.Valid {
		amount = tx.AbsAmount.Decimal.StringFixed(2)
	}

	greeting := ""
	if vendor != "" {
		greeting = vendor + ","
	}

	body := fmt.Sprintf(
		"Buenas %s\n\n¿Nos pueden enviar la factura correspondiente al cargo bancario de fecha %s e importe %s €",
		greeting, dateTxt, amount,
	)
	if tx.Description != "" {
		body += fmt.Sprintf(" (concepto: %s)", tx.Description)
	}
	body += "?\n\nMuchas gracias.\n\nUn saludo."
	return body
}
