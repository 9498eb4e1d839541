package claims

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/conciliador/internal/classifier"
	"github.com/eshaffer321/conciliador/internal/domain/model"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func amount(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestDirectory_Lookup(t *testing.T) {
	dir := NewDirectory([]*model.VendorEntry{
		{Vendor: "Acme SL", Email: "facturas@acme.example", Key: model.NormalizeVendorKey("Acme SL")},
	})

	e, ok := dir.Lookup("  acme sl ")
	require.True(t, ok)
	assert.Equal(t, "facturas@acme.example", e.Email)

	_, ok = dir.Lookup("globex")
	assert.False(t, ok)
}

func TestDirectory_LaterEntryWins(t *testing.T) {
	dir := NewDirectory([]*model.VendorEntry{
		{Vendor: "ACME", Email: "old@acme.example", Key: "ACME"},
		{Vendor: "ACME", Email: "new@acme.example", Key: "ACME"},
	})

	e, ok := dir.Lookup("ACME")
	require.True(t, ok)
	assert.Equal(t, "new@acme.example", e.Email)
}

func TestIsClaimable(t *testing.T) {
	tests := []struct {
		name string
		tx   model.Transaction
		want bool
	}{
		{
			name: "rule says supplier invoice",
			tx:   model.Transaction{RuleCategory: classifier.CategorySupplierInvoice},
			want: true,
		},
		{
			name: "rule says bank fee",
			tx:   model.Transaction{RuleCategory: classifier.CategoryBankFee},
			want: false,
		},
		{
			name: "ai verdict overrides rule",
			tx: model.Transaction{
				RuleCategory: classifier.CategorySupplierInvoice,
				AICategory:   classifier.CategoryBankFee,
			},
			want: false,
		},
		{
			name: "ai invoice flag wins even for other category",
			tx: model.Transaction{
				RuleCategory: classifier.CategoryOther,
				AICategory:   classifier.CategoryOther,
				IsInvoice:    true,
			},
			want: true,
		},
		{
			name: "ai supplier category",
			tx: model.Transaction{
				RuleCategory: classifier.CategoryBankFee,
				AICategory:   classifier.CategorySupplierInvoice,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClaimable(&tt.tx))
		})
	}
}

func TestProbableVendor(t *testing.T) {
	assert.Equal(t, "ENDESA", ProbableVendor(&model.Transaction{ProbableVendor: "ENDESA", Vendor: "OTRA"}))
	assert.Equal(t, "OTRA", ProbableVendor(&model.Transaction{Vendor: "OTRA"}))
	assert.Equal(t, "", ProbableVendor(&model.Transaction{}))
}

func TestMessage(t *testing.T) {
	tx := &model.Transaction{
		Date:        day(2024, 3, 10),
		Description: "RECIBO ENDESA",
		AbsAmount:   amount("120.50"),
	}

	got := Message(tx, "ENDESA")

	assert.Equal(t,
		"Buenas ENDESA,\n\n"+
			"¿Nos pueden enviar la factura correspondiente al cargo bancario de fecha 10/03/2024 "+
			"e importe 120.50 € (concepto: RECIBO ENDESA)?\n\n"+
			"Muchas gracias.\n\nUn saludo.",
		got)
}

func TestMessage_NoVendorNoDescription(t *testing.T) {
	tx := &model.Transaction{Date: day(2024, 3, 10), AbsAmount: amount("9.99")}

	got := Message(tx, "")

	assert.Contains(t, got, "Buenas \n\n")
	assert.NotContains(t, got, "concepto")
}

func TestBuild(t *testing.T) {
	dir := NewDirectory([]*model.VendorEntry{
		{Vendor: "ENDESA", Email: "facturas@endesa.example", Key: "ENDESA"},
	})
	unmatched := []*model.Transaction{
		{
			ID:           1,
			Date:         day(2024, 3, 10),
			Description:  "RECIBO ENDESA",
			AbsAmount:    amount("120.50"),
			RuleCategory: classifier.CategorySupplierInvoice,
			Vendor:       "endesa",
		},
		{
			ID:           2,
			Description:  "COMISION CUENTA",
			AbsAmount:    amount("3.00"),
			RuleCategory: classifier.CategoryBankFee,
		},
	}

	list := Build(unmatched, dir)

	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Transaction.ID)
	assert.Equal(t, "endesa", list[0].Vendor)
	assert.Equal(t, "facturas@endesa.example", list[0].Email)
	assert.Contains(t, list[0].Message, "120.50")
}

func TestBuild_NilDirectory(t *testing.T) {
	unmatched := []*model.Transaction{
		{ID: 1, RuleCategory: classifier.CategorySupplierInvoice, AbsAmount: amount("10.00")},
	}

	list := Build(unmatched, nil)

	require.Len(t, list, 1)
	assert.Equal(t, "", list[0].Email)
}
