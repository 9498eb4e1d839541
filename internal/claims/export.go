package claims

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Reclamaciones"

var exportHeader = []string{
	"RowID", "Fecha", "Concepto", "Importe", "TipoRegla", "TipoIA",
	"ProveedorProbable", "Email", "TextoEmail",
}

// WriteXLSX writes the claims report as an Excel workbook with a single
// Reclamaciones sheet, one row per claimable debit.
func WriteXLSX(w io.Writer, list []Claim) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, c := range list {
		tx := c.Transaction
		dateTxt := ""
		if tx.Date != nil {
			dateTxt = tx.Date.Format("02/01/2006")
		}
		amount := ""
		if tx.Amount.Valid {
			amount = tx.Amount.Decimal.StringFixed(2)
		}
		values := []interface{}{
			tx.ID, dateTxt, tx.Description, amount,
			tx.RuleCategory, tx.AICategory, c.Vendor, c.Email, c.Message,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
