package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV_NormalizesHeaders(t *testing.T) {
	src := "Fecha Mov,Importe,Concepto\n10/03/2024,-120.00,RECIBO LUZ\n"

	table, err := ReadCSV(strings.NewReader(src))

	require.NoError(t, err)
	assert.Equal(t, []string{"fecha_mov", "importe", "concepto"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "RECIBO LUZ", table.Rows[0]["concepto"])
}

func TestReadCSV_PadsShortRows(t *testing.T) {
	src := "fecha,importe,concepto\n10/03/2024,-120.00\n"

	table, err := ReadCSV(strings.NewReader(src))

	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "", table.Rows[0]["concepto"])
}

func TestReadCSV_EmptySource(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestHasColumn(t *testing.T) {
	table := &Table{Columns: []string{"fecha", "importe"}}
	assert.True(t, table.HasColumn("fecha"))
	assert.False(t, table.HasColumn("concepto"))
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	// Arrange: build a workbook in memory
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Fecha", "Importe"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"10/03/2024", "-50.00"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	// Act
	table, err := ReadXLSX(&buf)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"fecha", "importe"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "-50.00", table.Rows[0]["importe"])
}
