// Package reconcile pairs bank debits with supplier invoices.
//
// The matcher is greedy, single pass and deterministic: debits are visited in
// ascending ID order, and a debit matches only when exactly one unconsumed
// invoice falls inside its date window and amount tolerance. Multiple
// equally-valid candidates leave the debit unmatched; the engine never guesses
// among ambiguous invoices. There is no backtracking; re-running with a wider
// window or tolerance is the only remediation path.
package reconcile

import (
	"fmt"

	"github.com/eshaffer321/conciliador/internal/domain/model"
)

// Reconcile runs one matching pass. The input slices are annotated in place
// (match state on transactions, used flags on invoices) and partitioned into
// the returned Result.
func Reconcile(transactions []*model.Transaction, invoices []*model.Invoice, p Params) (*Result, error) {
	if p.WindowDays < 0 {
		return nil, fmt.Errorf("window days must be >= 0, got %d", p.WindowDays)
	}
	if p.Tolerance.IsNegative() {
		return nil, fmt.Errorf("amount tolerance must be >= 0, got %s", p.Tolerance)
	}

	var debits []*model.Transaction
	for _, tx := range transactions {
		if tx.IsDebit() {
			debits = append(debits, tx)
		}
	}

	// With nothing to pair on either side every debit is a claim and every
	// invoice stays unused.
	if len(debits) > 0 && len(invoices) > 0 {
		matchPass(debits, invoices, p)
	}

	result := &Result{
		Transactions: transactions,
		Invoices:     invoices,
		Debits:       debits,
	}
	for _, d := range debits {
		if !d.Matched {
			result.Claims = append(result.Claims, d)
		}
	}
	for _, inv := range invoices {
		if !inv.Used {
			result.UnusedInvoices = append(result.UnusedInvoices, inv)
		}
	}

	result.Summary = Summary{
		TotalDebits:    len(debits),
		MatchedDebits:  len(debits) - len(result.Claims),
		Claims:         len(result.Claims),
		TotalInvoices:  len(invoices),
		UsedInvoices:   len(invoices) - len(result.UnusedInvoices),
		UnusedInvoices: len(result.UnusedInvoices),
	}
	return result, nil
}

func matchPass(debits []*model.Transaction, invoices []*model.Invoice, p Params) {
	consumed := make(map[string]bool)

	for _, debit := range debits {
		if debit.Matched {
			continue
		}

		target := debit.AbsAmount.Decimal.Round(2)

		var candidates []*model.Invoice
		for _, inv := range invoices {
			if consumed[inv.Key] {
				continue
			}
			if debit.Date != nil {
				// Dateless invoices are ineligible for dated debits; a
				// dateless debit sees the whole unconsumed invoice set.
				if inv.Date == nil {
					continue
				}
				min := debit.Date.AddDate(0, 0, -p.WindowDays)
				max := debit.Date.AddDate(0, 0, p.WindowDays)
				if inv.Date.Before(min) || inv.Date.After(max) {
					continue
				}
			}
			if !inv.Amount.Valid {
				continue
			}
			if inv.Amount.Decimal.Sub(target).Abs().GreaterThan(p.Tolerance) {
				continue
			}
			candidates = append(candidates, inv)
		}

		// Match only on a unique candidate. Zero or several candidates leave
		// the debit unmatched for this run. Note that duplicate invoice rows
		// share one key and therefore show up as two candidates.
		if len(candidates) != 1 {
			continue
		}

		match := candidates[0]
		consumed[match.Key] = true
		for _, inv := range invoices {
			if inv.Key == match.Key {
				inv.Used = true
			}
		}

		debit.Matched = true
		debit.InvoiceKey = match.Key
		debit.Vendor = match.Vendor
		debit.InvoiceNumber = match.InvoiceNumber
	}
}
