package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/conciliador/internal/claims"
	"github.com/eshaffer321/conciliador/internal/domain/model"
	"github.com/eshaffer321/conciliador/internal/ingest"
	"github.com/eshaffer321/conciliador/internal/service"
)

// Upload field names mirror the interactive surface.
const (
	fieldBank      = "extracto"
	fieldInvoices  = "facturas"
	fieldDirectory = "proveedores"
)

type summaryDTO struct {
	TotalDebits    int `json:"total_debits"`
	MatchedDebits  int `json:"matched_debits"`
	Claims         int `json:"claims"`
	TotalInvoices  int `json:"total_invoices"`
	UsedInvoices   int `json:"used_invoices"`
	UnusedInvoices int `json:"unused_invoices"`
}

type transactionDTO struct {
	ID            int    `json:"id"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description"`
	Amount        string `json:"amount,omitempty"`
	Matched       bool   `json:"matched"`
	InvoiceKey    string `json:"invoice_key,omitempty"`
	Vendor        string `json:"vendor,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	RuleCategory  string `json:"rule_category,omitempty"`
	UserCategory  string `json:"user_category,omitempty"`
	AICategory    string `json:"ai_category,omitempty"`
}

type invoiceDTO struct {
	Date          string `json:"date,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Vendor        string `json:"vendor"`
	InvoiceNumber string `json:"invoice_number"`
	Key           string `json:"key"`
	Used          bool   `json:"used"`
}

type claimDTO struct {
	transactionDTO
	ProbableVendor string `json:"probable_vendor,omitempty"`
	Email          string `json:"email,omitempty"`
	Message        string `json:"message"`
}

type reconcileResponse struct {
	RunID           string           `json:"run_id"`
	Summary         summaryDTO       `json:"summary"`
	Transactions    []transactionDTO `json:"transactions"`
	Claims          []claimDTO       `json:"claims"`
	UnusedInvoices  []invoiceDTO     `json:"unused_invoices"`
	DirectoryLoaded bool             `json:"directory_loaded"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReconcile(c *gin.Context) {
	bankTable, ok := s.requireUpload(c, fieldBank)
	if !ok {
		return
	}
	invoiceTable, ok := s.requireUpload(c, fieldInvoices)
	if !ok {
		return
	}
	vendorTable, _ := s.optionalUpload(c, fieldDirectory)

	windowDays, err := strconv.Atoi(c.DefaultPostForm("window_days", "5"))
	if err != nil || windowDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window_days must be a non-negative integer"})
		return
	}
	tolerance, err := decimal.NewFromString(c.DefaultPostForm("tolerance", "0"))
	if err != nil || tolerance.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tolerance must be a non-negative decimal"})
		return
	}

	req := service.Request{
		WindowDays:    windowDays,
		Tolerance:     tolerance,
		TrimToOverlap: c.PostForm("trim_to_overlap") == "true",
		UseAI:         c.PostForm("use_ai") == "true",
		MaxAIClaims:   50,
	}
	if maxClaims, err := strconv.Atoi(c.PostForm("max_ai_claims")); err == nil && maxClaims > 0 {
		req.MaxAIClaims = maxClaims
	}

	run, err := s.svc.RunTables(c.Request.Context(), bankTable, invoiceTable, vendorTable, req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "xlsx" {
		var buf bytes.Buffer
		if err := claims.WriteXLSX(&buf, run.Claims); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="reclamaciones_conciliador.xlsx"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, buildReconcileResponse(run))
}

func (s *Server) handleGetCatalog(c *gin.Context) {
	cat := s.svc.Catalog()
	c.JSON(http.StatusOK, gin.H{"entries": cat, "count": len(cat)})
}

func (s *Server) handlePutCatalog(c *gin.Context) {
	var body struct {
		Entries map[string]string `json:"entries"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	merged, err := s.svc.SaveClassifications(body.Entries)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": merged, "count": len(merged)})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := s.store.RecentRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.store.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// requireUpload reads a mandatory tabular upload; it writes the error response
// itself and returns ok=false when the field is absent or unreadable.
func (s *Server) requireUpload(c *gin.Context, field string) (*ingest.Table, bool) {
	table, err := readUpload(c, field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + ": " + err.Error()})
		return nil, false
	}
	if table == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field " + field})
		return nil, false
	}
	return table, true
}

// optionalUpload reads an optional tabular upload; absence is not an error.
func (s *Server) optionalUpload(c *gin.Context, field string) (*ingest.Table, error) {
	return readUpload(c, field)
}

func readUpload(c *gin.Context, field string) (*ingest.Table, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil // field absent
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readTable(f, header.Filename)
}

func readTable(f multipart.File, filename string) (*ingest.Table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		return ingest.ReadCSV(f)
	}
	return ingest.ReadXLSX(f)
}

func buildReconcileResponse(run *service.RunResult) reconcileResponse {
	res := run.Reconciliation

	resp := reconcileResponse{
		RunID: run.RunID,
		Summary: summaryDTO{
			TotalDebits:    res.Summary.TotalDebits,
			MatchedDebits:  res.Summary.MatchedDebits,
			Claims:         res.Summary.Claims,
			TotalInvoices:  res.Summary.TotalInvoices,
			UsedInvoices:   res.Summary.UsedInvoices,
			UnusedInvoices: res.Summary.UnusedInvoices,
		},
		DirectoryLoaded: run.DirectoryLoaded,
	}

	for _, tx := range res.Transactions {
		resp.Transactions = append(resp.Transactions, buildTransactionDTO(tx))
	}
	for _, cl := range run.Claims {
		resp.Claims = append(resp.Claims, claimDTO{
			transactionDTO: buildTransactionDTO(cl.Transaction),
			ProbableVendor: cl.Vendor,
			Email:          cl.Email,
			Message:        cl.Message,
		})
	}
	for _, inv := range res.UnusedInvoices {
		dto := invoiceDTO{
			Vendor:        inv.Vendor,
			InvoiceNumber: inv.InvoiceNumber,
			Key:           inv.Key,
			Used:          inv.Used,
		}
		if inv.Date != nil {
			dto.Date = inv.Date.Format("2006-01-02")
		}
		if inv.Amount.Valid {
			dto.Amount = inv.Amount.Decimal.StringFixed(2)
		}
		resp.UnusedInvoices = append(resp.UnusedInvoices, dto)
	}
	return resp
}

func buildTransactionDTO(tx *model.Transaction) transactionDTO {
	dto := transactionDTO{
		ID:            tx.ID,
		Description:   tx.Description,
		Matched:       tx.Matched,
		InvoiceKey:    tx.InvoiceKey,
		Vendor:        tx.Vendor,
		InvoiceNumber: tx.InvoiceNumber,
		RuleCategory:  tx.RuleCategory,
		UserCategory:  tx.UserCategory,
		AICategory:    tx.AICategory,
	}
	if tx.Date != nil {
		dto.Date = tx.Date.Format("2006-01-02")
	}
	if tx.Amount.Valid {
		dto.Amount = tx.Amount.Decimal.StringFixed(2)
	}
	return dto
}
