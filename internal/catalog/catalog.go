// Package catalog implements the user-taught classification memory: a durable
// mapping from a normalized movement description to a category label chosen by
// a human, reused across reconciliation runs.
package catalog

import (
	"strings"

	"github.com/eshaffer321/conciliador/internal/domain/model"
)

// Store persists the catalog as a whole. Load substitutes an empty catalog on
// any read or parse failure (silent loss on load is fine, the user just
// re-teaches); Save must replace the previous catalog atomically, since losing
// taught classifications on a half-written file is not acceptable.
type Store interface {
	Load() map[string]string
	Save(catalog map[string]string) error
}

// NormalizeKey collapses a movement description to its catalog key: uppercase,
// trimmed, with every whitespace run reduced to a single space. Minor
// formatting drift in the same underlying description maps to the same key.
func NormalizeKey(description string) string {
	return strings.Join(strings.Fields(strings.ToUpper(description)), " ")
}

// Apply left-joins the catalog onto the claims by normalized description,
// filling UserCategory (empty when the catalog holds nothing for the key).
func Apply(claims []*model.Transaction, cat map[string]string) {
	for _, claim := range claims {
		claim.UserCategory = cat[NormalizeKey(claim.Description)]
	}
}

// MergeAndSave upserts every claim carrying a non-empty user-chosen category
// into the catalog and persists the result. Existing entries for the same key
// are replaced (last write wins); keys not touched in this run are preserved.
// The merged catalog is returned for display. Applying the same edits twice
// yields the same catalog as applying them once.
func MergeAndSave(store Store, edited []*model.Transaction, cat map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(cat)+len(edited))
	for k, v := range cat {
		merged[k] = v
	}
	for _, claim := range edited {
		if claim.UserCategory == "" {
			continue
		}
		merged[NormalizeKey(claim.Description)] = claim.UserCategory
	}

	if err := store.Save(merged); err != nil {
		return nil, err
	}
	return merged, nil
}
