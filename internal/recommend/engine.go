// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package recommend

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vitrine-dev/vitrine/internal/store"
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// EngineConfig tunes the similarity query engine.
type EngineConfig struct {
	// DefaultK is the neighbor count used when a query does not specify one.
	DefaultK int
	// MinSimilarity is the floor below which neighbors are discarded.
	// Nil falls back to DefaultMinSimilarity; zero is a valid floor.
	MinSimilarity *float64
}

// Engine finds catalog items similar to a source item by nearest-neighbor
// search over stored embeddings.
type Engine struct {
	vectors       store.VectorStore
	defaultK      int
	minSimilarity float64
}

// NewEngine creates an Engine. Unset config fields fall back to DefaultK
// and DefaultMinSimilarity.
func NewEngine(vectors store.VectorStore, cfg EngineConfig) *Engine {
	k := cfg.DefaultK
	if k <= 0 {
		k = DefaultK
	}
	minSim := DefaultMinSimilarity
	if cfg.MinSimilarity != nil {
		minSim = *cfg.MinSimilarity
	}
	return &Engine{vectors: vectors, defaultK: k, minSimilarity: minSim}
}

// FindSimilar returns up to k neighbors of sourceItemID ordered by
// non-increasing similarity, each at or above the configured similarity
// floor. The source item itself is never returned.
//
// A missing embedding is not an error: an item may legitimately lack one
// (e.g. newly created), so the result is simply empty. Vector store
// failures are logged and also yield an empty result. The only returned
// error is input validation on sourceItemID.
func (e *Engine) FindSimilar(ctx context.Context, sourceItemID string, k int) ([]SimilarityResult, error) {
	if sourceItemID == "" {
		return nil, vitrerr.New(vitrerr.CodeRecommendSourceInvalid, "source item id must not be empty")
	}
	if k <= 0 {
		k = e.defaultK
	}

	rec, err := e.vectors.Lookup(ctx, store.ItemTypeProduct, sourceItemID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Warn("embedding lookup failed, returning no recommendations",
				"item_id", sourceItemID, "error", err)
		}
		return nil, nil
	}

	neighbors, err := e.vectors.Search(ctx, rec.Vector, k, store.SearchFilter{
		Type:          store.ItemTypeProduct,
		ExcludeItemID: sourceItemID,
	})
	if err != nil {
		slog.Warn("embedding search failed, returning no recommendations",
			"item_id", sourceItemID, "error", err)
		return nil, nil
	}

	// Neighbors arrive ordered by ascending distance, so descending
	// similarity order is preserved as-is.
	results := make([]SimilarityResult, 0, len(neighbors))
	for _, n := range neighbors {
		similarity := 1 - n.Distance
		if similarity < e.minSimilarity {
			continue
		}
		results = append(results, SimilarityResult{
			ItemID:     n.ItemID,
			Similarity: similarity,
		})
		if len(results) == k {
			break
		}
	}

	return results, nil
}
