package storage

import "time"

// RunRecord is the persisted summary of one reconciliation run.
type RunRecord struct {
	ID          string
	StartedAt   time.Time
	CompletedAt time.Time
	Status      string

	BankSource    string
	InvoiceSource string
	WindowDays    int
	Tolerance     string

	TotalDebits    int
	MatchedDebits  int
	Claims         int
	TotalInvoices  int
	UsedInvoices   int
	UnusedInvoices int
}

// Run status values.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Stats aggregates the run history for the stats endpoint and CLI summary.
type Stats struct {
	TotalRuns     int
	TotalDebits   int
	TotalMatched  int
	TotalClaims   int
	MatchRate     float64
	LastRunAt     string
	LastRunStatus string
}
