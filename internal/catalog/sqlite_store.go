package catalog

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists the catalog in a sqlite table, for installations that
// already run the reconciliation run-history database. The key column is the
// primary key, so the store enforces entry uniqueness on write and reads never
// see duplicate keys.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) a sqlite-backed catalog.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS catalog (
		key      TEXT PRIMARY KEY,
		category TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create catalog table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the whole catalog. Any query failure yields an empty catalog.
func (s *SQLiteStore) Load() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat := map[string]string{}
	rows, err := s.db.Query(`SELECT key, category FROM catalog`)
	if err != nil {
		return cat
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, category string
		if err := rows.Scan(&key, &category); err != nil {
			return map[string]string{}
		}
		cat[key] = category
	}
	if rows.Err() != nil {
		return map[string]string{}
	}
	return cat
}

// Save replaces the persisted catalog in a single transaction.
func (s *SQLiteStore) Save(cat map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin catalog save: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM catalog`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	for key, category := range cat {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO catalog (key, category) VALUES (?, ?)`, key, category); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save catalog entry: %w", err)
		}
	}

	return tx.Commit()
}
