package ingest

import "fmt"

// MissingColumnError reports that a required semantic column could not be
// resolved through any of its accepted aliases. It carries the aliases that
// were tried and the columns actually present so the caller can show the user
// what the source looked like.
type MissingColumnError struct {
	Field   string
	Tried   []string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("no %s column found (tried %v, source has %v)", e.Field, e.Tried, e.Columns)
}
