// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package recommend

import (
	"context"
	"time"

	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// defaultTimeout bounds the two store calls behind one recommendation
// request. A timeout degrades to an empty result like any store failure.
const defaultTimeout = 3 * time.Second

// RecommenderConfig tunes request handling.
type RecommenderConfig struct {
	// MaxK caps the per-request neighbor count override. 0 disables overrides
	// above the engine default.
	MaxK int
	// Timeout bounds the embedding query plus catalog lookup.
	Timeout time.Duration
}

// Recommender orchestrates the similarity engine and the assembler.
// Each call is independent and idempotent; no state is held between calls.
type Recommender struct {
	engine    *Engine
	assembler *Assembler
	maxK      int
	timeout   time.Duration
}

// NewRecommender wires an engine and assembler into a request-facing service.
func NewRecommender(engine *Engine, assembler *Assembler, cfg RecommenderConfig) *Recommender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Recommender{
		engine:    engine,
		assembler: assembler,
		maxK:      cfg.MaxK,
		timeout:   timeout,
	}
}

// GetRecommendations returns ranked recommendations for sourceItemID.
// k <= 0 uses the engine default; k above MaxK is clamped. An empty result
// with nil error covers every non-validation failure mode: no embedding,
// no neighbors above the floor, store outage, timeout.
func (r *Recommender) GetRecommendations(ctx context.Context, sourceItemID string, k int) ([]Recommendation, error) {
	if sourceItemID == "" {
		return nil, vitrerr.New(vitrerr.CodeRecommendSourceInvalid, "source item id must not be empty")
	}
	if r.maxK > 0 && k > r.maxK {
		k = r.maxK
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	similar, err := r.engine.FindSimilar(ctx, sourceItemID, k)
	if err != nil {
		return nil, err
	}

	return r.assembler.Assemble(ctx, similar), nil
}
