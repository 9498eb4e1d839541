package ingest

import (
	"strconv"
	"strings"

	"github.com/eshaffer321/conciliador/internal/domain/model"
)

// Ordered alias tables per semantic field. The first alias present in the
// source wins; order is part of the contract because real exports frequently
// carry more than one date- or amount-looking column.
var (
	bankDateAliases        = []string{"fecha_mov", "fecha", "date"}
	bankAmountAliases      = []string{"importe", "importe_mov", "amount", "importe_fac"}
	bankDescriptionAliases = []string{"concepto_raw", "concepto", "descripcion", "descripción"}

	invoiceDateAliases   = []string{"fecha_fac", "fecha", "fecha_factura"}
	invoiceAmountAliases = []string{"importe_fac", "importe", "total", "total_factura"}
	invoiceVendorAliases = []string{"proveedor", "cliente", "nombre"}
	invoiceNumberAliases = []string{"num_fac", "num_factura", "numero_factura", "factura", "num", "numero"}
)

// resolveColumn returns the first alias present in the table, or "" when none is.
func resolveColumn(t *Table, aliases []string) string {
	for _, a := range aliases {
		if t.HasColumn(a) {
			return a
		}
	}
	return ""
}

func requireColumn(t *Table, field string, aliases []string) (string, error) {
	col := resolveColumn(t, aliases)
	if col == "" {
		return "", &MissingColumnError{Field: field, Tried: aliases, Columns: t.Columns}
	}
	return col, nil
}

// NormalizeBank maps a raw bank statement table to canonical transactions.
// Input row order is preserved and a dense sequential ID starting at 1 is
// assigned, giving each transaction a stable identity within the run.
func NormalizeBank(t *Table) ([]*model.Transaction, error) {
	dateCol, err := requireColumn(t, "fecha", bankDateAliases)
	if err != nil {
		return nil, err
	}
	amountCol, err := requireColumn(t, "importe", bankAmountAliases)
	if err != nil {
		return nil, err
	}
	descCol := resolveColumn(t, bankDescriptionAliases)

	txs := make([]*model.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		tx := &model.Transaction{
			ID:     i + 1,
			Date:   parseDate(row[dateCol]),
			Amount: parseAmount(row[amountCol]),
		}
		if descCol != "" {
			tx.Description = strings.TrimSpace(row[descCol])
		}
		if tx.Amount.Valid {
			tx.AbsAmount.Decimal = tx.Amount.Decimal.Abs().Round(2)
			tx.AbsAmount.Valid = true
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// NormalizeInvoices maps a raw invoice ledger table to canonical invoices.
// Invoice amounts are never negative: the absolute value is taken and rounded
// to two decimals at ingestion. A missing vendor column falls back to the
// unknown-vendor sentinel and a missing number column to the row ordinal.
func NormalizeInvoices(t *Table) ([]*model.Invoice, error) {
	amountCol, err := requireColumn(t, "importe", invoiceAmountAliases)
	if err != nil {
		return nil, err
	}
	dateCol := resolveColumn(t, invoiceDateAliases)
	vendorCol := resolveColumn(t, invoiceVendorAliases)
	numberCol := resolveColumn(t, invoiceNumberAliases)

	invs := make([]*model.Invoice, 0, len(t.Rows))
	for i, row := range t.Rows {
		inv := &model.Invoice{
			Vendor:        model.UnknownVendor,
			InvoiceNumber: strconv.Itoa(i),
		}
		if dateCol != "" {
			inv.Date = parseDate(row[dateCol])
		}
		if vendorCol != "" && strings.TrimSpace(row[vendorCol]) != "" {
			inv.Vendor = strings.TrimSpace(row[vendorCol])
		}
		if numberCol != "" && strings.TrimSpace(row[numberCol]) != "" {
			inv.InvoiceNumber = strings.TrimSpace(row[numberCol])
		}
		if amount := parseAmount(row[amountCol]); amount.Valid {
			inv.Amount.Decimal = amount.Decimal.Abs().Round(2)
			inv.Amount.Valid = true
		}
		inv.Key = model.InvoiceKey(inv.Date, inv.Vendor, inv.InvoiceNumber, inv.Amount)
		invs = append(invs, inv)
	}
	return invs, nil
}

// NormalizeDirectory maps a vendor contact table to directory entries. The
// directory format is strict: it must carry Proveedor and Email columns, with
// no alias fallback.
func NormalizeDirectory(t *Table) ([]*model.VendorEntry, error) {
	for _, col := range []string{"proveedor", "email"} {
		if !t.HasColumn(col) {
			return nil, &MissingColumnError{Field: col, Tried: []string{col}, Columns: t.Columns}
		}
	}

	entries := make([]*model.VendorEntry, 0, len(t.Rows))
	for _, row := range t.Rows {
		vendor := strings.TrimSpace(row["proveedor"])
		entries = append(entries, &model.VendorEntry{
			Vendor: vendor,
			Email:  strings.TrimSpace(row["email"]),
			Key:    model.NormalizeVendorKey(vendor),
		})
	}
	return entries, nil
}
