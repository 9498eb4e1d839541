package reconcile

import (
	"github.com/eshaffer321/conciliador/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Params configures a reconciliation pass.
type Params struct {
	// WindowDays is the symmetric date range (± days, inclusive) around a
	// debit's date within which an invoice is eligible.
	WindowDays int
	// Tolerance is the maximum absolute amount difference allowed between a
	// debit and a candidate invoice.
	Tolerance decimal.Decimal
}

// DefaultParams returns the defaults the interactive surface starts from.
func DefaultParams() Params {
	return Params{
		WindowDays: 5,
		Tolerance:  decimal.Zero,
	}
}

// Result holds the partitions of one reconciliation pass. The engine owns the
// match-state fields while the pass runs; callers must not mutate identity
// fields afterwards.
type Result struct {
	// Transactions and Invoices are the full input sets with match state
	// filled in. Credits pass through unmodified.
	Transactions []*model.Transaction
	Invoices     []*model.Invoice

	// Debits are the transactions with negative amount, matched or not.
	Debits []*model.Transaction
	// Claims are the debits left unmatched after the pass.
	Claims []*model.Transaction
	// UnusedInvoices are the invoices whose key was never consumed.
	UnusedInvoices []*model.Invoice

	Summary Summary
}

// Summary aggregates the pass for display and the run-history ledger.
type Summary struct {
	TotalDebits    int
	MatchedDebits  int
	Claims         int
	TotalInvoices  int
	UsedInvoices   int
	UnusedInvoices int
}
