// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

// Package recommend implements vector-similarity product recommendations:
// a query engine over the embedding store, an assembler that resolves
// neighbors to catalog records, and a recommender that orchestrates both.
//
// Store and transport failures inside this package degrade to empty results
// rather than propagating to the caller. Recommendations are an enhancement,
// not a critical path, and the surrounding storefront must never break
// because they are unavailable. The one surfaced error is input validation.
package recommend

import (
	"github.com/vitrine-dev/vitrine/internal/store"
)

// Default query parameters, used when configuration leaves them unset.
const (
	DefaultK             = 4
	DefaultMinSimilarity = 0.5
)

// SimilarityResult is a ranked neighbor of a source item.
type SimilarityResult struct {
	// ItemID is the neighbor's catalog identifier.
	ItemID string
	// Similarity is 1 - cosine distance, in [-1, 1]. Higher = more similar.
	Similarity float64
}

// Recommendation is a fully resolved catalog record plus its similarity
// to the source item.
type Recommendation struct {
	store.Product
	Similarity float64
}
