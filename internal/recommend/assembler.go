// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package recommend

import (
	"context"
	"log/slog"

	"github.com/vitrine-dev/vitrine/internal/store"
)

// Assembler resolves ranked similarity results into full catalog records.
type Assembler struct {
	catalog store.CatalogStore
}

// NewAssembler creates an Assembler over the given catalog store.
func NewAssembler(catalog store.CatalogStore) *Assembler {
	return &Assembler{catalog: catalog}
}

// Assemble resolves results to catalog records, preserving the input order
// exactly. The catalog is queried once for all ids; neighbors whose catalog
// record no longer exists are dropped silently. A bulk lookup failure is
// logged and yields an empty result (fail-open).
func (a *Assembler) Assemble(ctx context.Context, results []SimilarityResult) []Recommendation {
	if len(results) == 0 {
		return nil
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ItemID
	}

	products, err := a.catalog.GetByIDs(ctx, ids)
	if err != nil {
		slog.Warn("catalog bulk lookup failed, returning no recommendations",
			"ids", len(ids), "error", err)
		return nil
	}

	// The bulk lookup carries no ordering guarantee; project the ranked id
	// list through an id -> record map to re-impose similarity order.
	byID := make(map[string]*store.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]Recommendation, 0, len(results))
	for _, r := range results {
		p, ok := byID[r.ItemID]
		if !ok {
			continue
		}
		out = append(out, Recommendation{Product: *p, Similarity: r.Similarity})
	}

	return out
}
