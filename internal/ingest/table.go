// Package ingest normalizes heterogeneous tabular sources (bank statements,
// invoice ledgers, vendor directories) into the canonical records of
// internal/domain/model.
//
// Column names are matched through ordered alias tables per semantic field, so
// a new source format is supported by extending a table, not by new code.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a raw tabular source: one header row plus string cells.
// Column names are already normalized (lowercase, spaces as underscores).
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// HasColumn reports whether a normalized column name is present.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// normalizeColumn lowercases a header cell and replaces spaces with underscores.
func normalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func tableFromRows(raw [][]string) (*Table, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("source has no header row")
	}

	header := make([]string, len(raw[0]))
	for i, c := range raw[0] {
		header[i] = normalizeColumn(c)
	}

	t := &Table{Columns: header}
	for _, cells := range raw[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// ReadCSV parses a CSV source into a Table. Ragged rows are tolerated; short
// rows are padded with empty cells.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	raw, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return tableFromRows(raw)
}

// ReadXLSX parses the first sheet of an Excel workbook into a Table.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return tableFromRows(raw)
}

// ReadFile loads a tabular source from disk, dispatching on the file extension
// the way the upload surface does: .csv is CSV, anything else is tried as an
// Excel workbook.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCSV(f)
	}
	return ReadXLSX(f)
}
