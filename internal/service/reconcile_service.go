// Package service wires the reconciliation pipeline together: load sources,
// classify by rules, match debits to invoices, join the taught catalog and the
// optional AI collaborator, and record the run.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/conciliador/internal/aiclassify"
	"github.com/eshaffer321/conciliador/internal/catalog"
	"github.com/eshaffer321/conciliador/internal/claims"
	"github.com/eshaffer321/conciliador/internal/classifier"
	"github.com/eshaffer321/conciliador/internal/domain/model"
	"github.com/eshaffer321/conciliador/internal/ingest"
	"github.com/eshaffer321/conciliador/internal/reconcile"
	"github.com/eshaffer321/conciliador/internal/storage"
)

// Request holds the parameters of one reconciliation run.
type Request struct {
	BankPath    string
	InvoicePath string
	VendorPath  string // optional

	WindowDays    int
	Tolerance     decimal.Decimal
	TrimToOverlap bool

	UseAI       bool
	MaxAIClaims int
}

// RunResult is everything a presentation layer needs from one run.
type RunResult struct {
	RunID          string
	Reconciliation *reconcile.Result
	// Claims is the claimable subset of unmatched debits, with messages and
	// vendor contacts attached.
	Claims []claims.Claim
	// Catalog is the taught catalog as applied during this run.
	Catalog map[string]string
	// DirectoryLoaded is false when the vendor directory was absent or failed
	// to load; e-mail lookups are simply disabled then.
	DirectoryLoaded bool
}

// ReconcileService runs reconciliation passes. One service instance handles
// one run at a time; the catalog store serializes its own writes.
type ReconcileService struct {
	catalogStore catalog.Store
	runStore     *storage.Storage // nil disables run history
	aiClassifier aiclassify.Classifier
	logger       *slog.Logger
}

// NewReconcileService creates a service. runStore and aiClassifier may be nil.
func NewReconcileService(catalogStore catalog.Store, runStore *storage.Storage, ai aiclassify.Classifier, logger *slog.Logger) *ReconcileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileService{
		catalogStore: catalogStore,
		runStore:     runStore,
		aiClassifier: ai,
		logger:       logger,
	}
}

// Run loads the sources from disk and executes one full pass. Bank or invoice
// load failures abort the run before reconciliation starts; a vendor directory
// failure only disables contact lookups.
func (s *ReconcileService) Run(ctx context.Context, req Request) (*RunResult, error) {
	bankTable, err := ingest.ReadFile(req.BankPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank statement: %w", err)
	}
	invoiceTable, err := ingest.ReadFile(req.InvoicePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	var vendorTable *ingest.Table
	if req.VendorPath != "" {
		vendorTable, err = ingest.ReadFile(req.VendorPath)
		if err != nil {
			s.logger.Warn("failed to load vendor directory, e-mail lookups disabled",
				slog.String("path", req.VendorPath),
				slog.String("error", err.Error()))
			vendorTable = nil
		}
	}

	return s.RunTables(ctx, bankTable, invoiceTable, vendorTable, req)
}

// RunTables executes one full pass over already-loaded tables. This is the
// entry point the upload API uses.
func (s *ReconcileService) RunTables(ctx context.Context, bankTable, invoiceTable, vendorTable *ingest.Table, req Request) (*RunResult, error) {
	startedAt := time.Now().UTC()
	runID := uuid.NewString()

	transactions, err := ingest.NormalizeBank(bankTable)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize bank statement: %w", err)
	}
	invoices, err := ingest.NormalizeInvoices(invoiceTable)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize invoices: %w", err)
	}

	var directory *claims.Directory
	directoryLoaded := false
	if vendorTable != nil {
		entries, err := ingest.NormalizeDirectory(vendorTable)
		if err != nil {
			s.logger.Warn("invalid vendor directory, e-mail lookups disabled",
				slog.String("error", err.Error()))
		} else {
			directory = claims.NewDirectory(entries)
			directoryLoaded = true
		}
	}

	if req.TrimToOverlap {
		transactions, invoices = trimToOverlap(transactions, invoices, s.logger)
	}

	for _, tx := range transactions {
		tx.RuleCategory = classifier.Classify(tx.Description)
	}

	result, err := reconcile.Reconcile(transactions, invoices, reconcile.Params{
		WindowDays: req.WindowDays,
		Tolerance:  req.Tolerance,
	})
	if err != nil {
		return nil, err
	}

	cat := map[string]string{}
	if s.catalogStore != nil {
		cat = s.catalogStore.Load()
	}
	catalog.Apply(result.Claims, cat)

	if req.UseAI && s.aiClassifier != nil {
		aiclassify.Annotate(ctx, s.aiClassifier, result.Claims, req.MaxAIClaims, s.logger)
	}

	run := &RunResult{
		RunID:           runID,
		Reconciliation:  result,
		Claims:          claims.Build(result.Claims, directory),
		Catalog:         cat,
		DirectoryLoaded: directoryLoaded,
	}

	s.recordRun(runID, startedAt, req, result)

	s.logger.Info("reconciliation completed",
		slog.String("run_id", runID),
		slog.Int("debits", result.Summary.TotalDebits),
		slog.Int("matched", result.Summary.MatchedDebits),
		slog.Int("claims", result.Summary.Claims),
		slog.Int("unused_invoices", result.Summary.UnusedInvoices))

	return run, nil
}

// SaveClassifications merges user-taught categories into the catalog and
// persists it. Invalid labels are rejected before anything is written.
func (s *ReconcileService) SaveClassifications(edited map[string]string) (map[string]string, error) {
	if s.catalogStore == nil {
		return nil, fmt.Errorf("no catalog store configured")
	}

	txs := make([]*model.Transaction, 0, len(edited))
	for description, category := range edited {
		if category == "" {
			continue
		}
		if !classifier.IsValidCategory(category) {
			return nil, fmt.Errorf("unknown category %q for %q", category, description)
		}
		txs = append(txs, &model.Transaction{Description: description, UserCategory: category})
	}

	return catalog.MergeAndSave(s.catalogStore, txs, s.catalogStore.Load())
}

// Catalog returns the current taught catalog.
func (s *ReconcileService) Catalog() map[string]string {
	if s.catalogStore == nil {
		return map[string]string{}
	}
	return s.catalogStore.Load()
}

func (s *ReconcileService) recordRun(runID string, startedAt time.Time, req Request, result *reconcile.Result) {
	if s.runStore == nil {
		return
	}

	record := &storage.RunRecord{
		ID:             runID,
		StartedAt:      startedAt,
		CompletedAt:    time.Now().UTC(),
		Status:         storage.RunStatusCompleted,
		BankSource:     req.BankPath,
		InvoiceSource:  req.InvoicePath,
		WindowDays:     req.WindowDays,
		Tolerance:      req.Tolerance.StringFixed(2),
		TotalDebits:    result.Summary.TotalDebits,
		MatchedDebits:  result.Summary.MatchedDebits,
		Claims:         result.Summary.Claims,
		TotalInvoices:  result.Summary.TotalInvoices,
		UsedInvoices:   result.Summary.UsedInvoices,
		UnusedInvoices: result.Summary.UnusedInvoices,
	}
	if err := s.runStore.SaveRun(record); err != nil {
		s.logger.Warn("failed to record run", slog.String("error", err.Error()))
	}
}

// trimToOverlap restricts both sides to the date range where statement and
// invoice dates overlap. When either side has no dates or the ranges do not
// overlap, the inputs are returned untouched.
func trimToOverlap(transactions []*model.Transaction, invoices []*model.Invoice, logger *slog.Logger) ([]*model.Transaction, []*model.Invoice) {
	txMin, txMax := transactionDateRange(transactions)
	invMin, invMax := invoiceDateRange(invoices)
	if txMin == nil || invMin == nil {
		return transactions, invoices
	}

	start := *txMin
	if invMin.After(start) {
		start = *invMin
	}
	end := *txMax
	if invMax.Before(end) {
		end = *invMax
	}
	if start.After(end) {
		logger.Warn("statement and invoice date ranges do not overlap, skipping trim")
		return transactions, invoices
	}

	var outTxs []*model.Transaction
	for _, tx := range transactions {
		if tx.Date != nil && !tx.Date.Before(start) && !tx.Date.After(end) {
			outTxs = append(outTxs, tx)
		}
	}
	var outInvs []*model.Invoice
	for _, inv := range invoices {
		if inv.Date != nil && !inv.Date.Before(start) && !inv.Date.After(end) {
			outInvs = append(outInvs, inv)
		}
	}
	return outTxs, outInvs
}

func transactionDateRange(txs []*model.Transaction) (*time.Time, *time.Time) {
	var min, max *time.Time
	for _, tx := range txs {
		if tx.Date == nil {
			continue
		}
		if min == nil || tx.Date.Before(*min) {
			min = tx.Date
		}
		if max == nil || tx.Date.After(*max) {
			max = tx.Date
		}
	}
	return min, max
}

func invoiceDateRange(invs []*model.Invoice) (*time.Time, *time.Time) {
	var min, max *time.Time
	for _, inv := range invs {
		if inv.Date == nil {
			continue
		}
		if min == nil || inv.Date.Before(*min) {
			min = inv.Date
		}
		if max == nil || inv.Date.After(*max) {
			max = inv.Date
		}
	}
	return min, max
}
