// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

// Package embedding defines the embedding-provider abstraction and the
// indexer that keeps product embeddings in sync with catalog content.
package embedding

import "context"

// Embedder produces a fixed-dimension vector for a piece of text.
// Implementations wrap an external embedding API; all records compared
// against each other must come from the same provider and model.
type Embedder interface {
	// Name identifies the provider (e.g. "openai", "google").
	Name() string
	// Embed returns the embedding vector for text.
	Embed(ctx context.Context, text string) ([]float32, error)
}
