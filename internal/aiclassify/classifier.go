// Package aiclassify is the optional AI collaborator that classifies a single
// pending movement. The core never depends on it: any error degrades to a
// neutral result and the rule classifier's label stands.
package aiclassify

import (
	"context"
	"log/slog"
	"time"

	"github.com/eshaffer321/conciliador/internal/classifier"
	"github.com/eshaffer321/conciliador/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Result is what the collaborator returns for one movement.
type Result struct {
	Category       string `json:"tipo"`
	ProbableVendor string `json:"proveedor_probable"`
	IsInvoice      bool   `json:"es_factura"`
}

// Neutral is the fallback when classification is unavailable or fails.
func Neutral() Result {
	return Result{Category: classifier.CategoryOther}
}

// Classifier classifies one movement from its description, amount and date.
type Classifier interface {
	ClassifyMovement(ctx context.Context, description string, amount decimal.NullDecimal, date *time.Time) (Result, error)
}

// Annotate runs the classifier over at most maxClaims claims, writing the AI
// fields onto each transaction. Failures are logged and neutralized per claim;
// Annotate itself never fails.
func Annotate(ctx context.Context, clf Classifier, claims []*model.Transaction, maxClaims int, logger *slog.Logger) {
	if clf == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	for i, tx := range claims {
		if maxClaims > 0 && i >= maxClaims {
			break
		}

		res, err := clf.ClassifyMovement(ctx, tx.Description, tx.Amount, tx.Date)
		if err != nil {
			logger.Warn("ai classification failed, keeping rule label",
				slog.Int("transaction_id", tx.ID),
				slog.String("error", err.Error()))
			res = Neutral()
		}

		tx.AICategory = res.Category
		tx.ProbableVendor = res.ProbableVendor
		tx.IsInvoice = res.IsInvoice
	}
}
