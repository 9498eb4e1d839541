// Package storage is the sqlite-backed run-history ledger: one row per
// reconciliation run, used by the API and CLI to show recent activity and
// aggregate match rates.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides sqlite database access for run records.
type Storage struct {
	db *sql.DB
}

// NewStorage opens the run-history database, creating the schema when needed.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS reconciliation_runs (
		id              TEXT PRIMARY KEY,
		started_at      TIMESTAMP NOT NULL,
		completed_at    TIMESTAMP,
		status          TEXT NOT NULL,
		bank_source     TEXT,
		invoice_source  TEXT,
		window_days     INTEGER NOT NULL,
		tolerance       TEXT NOT NULL,
		total_debits    INTEGER NOT NULL DEFAULT 0,
		matched_debits  INTEGER NOT NULL DEFAULT 0,
		claims          INTEGER NOT NULL DEFAULT 0,
		total_invoices  INTEGER NOT NULL DEFAULT 0,
		used_invoices   INTEGER NOT NULL DEFAULT 0,
		unused_invoices INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveRun records a completed (or failed) reconciliation run.
func (s *Storage) SaveRun(record *RunRecord) error {
	query := `
	INSERT OR REPLACE INTO reconciliation_runs
	(id, started_at, completed_at, status, bank_source, invoice_source,
	 window_days, tolerance, total_debits, matched_debits, claims,
	 total_invoices, used_invoices, unused_invoices)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		record.ID,
		record.StartedAt,
		record.CompletedAt,
		record.Status,
		record.BankSource,
		record.InvoiceSource,
		record.WindowDays,
		record.Tolerance,
		record.TotalDebits,
		record.MatchedDebits,
		record.Claims,
		record.TotalInvoices,
		record.UsedInvoices,
		record.UnusedInvoices,
	)
	return err
}

// RecentRuns lists the most recent runs, newest first.
func (s *Storage) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, started_at, completed_at, status, bank_source, invoice_source,
	       window_days, tolerance, total_debits, matched_debits, claims,
	       total_invoices, used_invoices, unused_invoices
	FROM reconciliation_runs
	ORDER BY started_at DESC
	LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var completedAt sql.NullTime
		err := rows.Scan(
			&r.ID,
			&r.StartedAt,
			&completedAt,
			&r.Status,
			&r.BankSource,
			&r.InvoiceSource,
			&r.WindowDays,
			&r.Tolerance,
			&r.TotalDebits,
			&r.MatchedDebits,
			&r.Claims,
			&r.TotalInvoices,
			&r.UsedInvoices,
			&r.UnusedInvoices,
		)
		if err != nil {
			return nil, err
		}
		if completedAt.Valid {
			r.CompletedAt = completedAt.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetStats returns aggregate statistics over the run history.
func (s *Storage) GetStats() (*Stats, error) {
	stats := &Stats{}

	query := `
	SELECT
		COUNT(*),
		COALESCE(SUM(total_debits), 0),
		COALESCE(SUM(matched_debits), 0),
		COALESCE(SUM(claims), 0)
	FROM reconciliation_runs
	`
	err := s.db.QueryRow(query).Scan(
		&stats.TotalRuns,
		&stats.TotalDebits,
		&stats.TotalMatched,
		&stats.TotalClaims,
	)
	if err != nil {
		return nil, err
	}

	if stats.TotalDebits > 0 {
		stats.MatchRate = float64(stats.TotalMatched) / float64(stats.TotalDebits) * 100
	}

	var lastAt time.Time
	var lastStatus string
	last := s.db.QueryRow(`SELECT started_at, status FROM reconciliation_runs ORDER BY started_at DESC LIMIT 1`)
	if err := last.Scan(&lastAt, &lastStatus); err == nil {
		stats.LastRunAt = lastAt.Format(time.RFC3339)
		stats.LastRunStatus = lastStatus
	}

	return stats, nil
}
