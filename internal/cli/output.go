package cli

import (
	"fmt"
	"strings"

	"github.com/eshaffer321/conciliador/internal/service"
	"github.com/eshaffer321/conciliador/internal/storage"
)

// PrintHeader prints the application header.
func PrintHeader(bankPath, invoicePath string) {
	fmt.Println("conciliador: conciliación bancaria")
	fmt.Printf("Extracto: %s | Facturas: %s\n\n", bankPath, invoicePath)
}

// PrintSummary prints the run result summary.
func PrintSummary(run *service.RunResult) {
	s := run.Reconciliation.Summary
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Gastos=%d Conciliados=%d Pendientes=%d Facturas=%d SinUsar=%d\n",
		s.TotalDebits, s.MatchedDebits, s.Claims, s.TotalInvoices, s.UnusedInvoices)
}

// PrintClaims prints one line per claimable pending debit.
func PrintClaims(run *service.RunResult) {
	if len(run.Claims) == 0 {
		fmt.Println("\nNo hay cargos pendientes que reclamar.")
		return
	}

	fmt.Printf("\nCargos pendientes reclamables: %d\n", len(run.Claims))
	for _, cl := range run.Claims {
		tx := cl.Transaction
		date := "-"
		if tx.Date != nil {
			date = tx.Date.Format("02/01/2006")
		}
		amount := "-"
		if tx.AbsAmount.Valid {
			amount = tx.AbsAmount.Decimal.StringFixed(2)
		}
		contact := cl.Vendor
		if cl.Email != "" {
			contact += " <" + cl.Email + ">"
		}
		fmt.Printf("  #%d %s %s € %q %s\n", tx.ID, date, amount, tx.Description, contact)
	}
}

// PrintStats prints the all-time run history stats when available.
func PrintStats(store *storage.Storage) {
	if store == nil {
		return
	}
	stats, err := store.GetStats()
	if err != nil || stats.TotalRuns == 0 {
		return
	}
	fmt.Printf("\nHistórico: Ejecuciones=%d Gastos=%d Conciliados=%d Acierto=%.1f%%\n",
		stats.TotalRuns, stats.TotalDebits, stats.TotalMatched, stats.MatchRate)
}
