// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package store

import "context"

// CatalogStore manages product records and supports the bulk lookup the
// recommendation assembler depends on.
type CatalogStore interface {
	Put(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	// GetByIDs resolves products in one query. The result carries no
	// ordering guarantee and silently omits ids with no matching record.
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
	List(ctx context.Context, opts ListOpts) ([]*Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Close() error
}

// VectorStore manages embedding storage and nearest-neighbor search.
type VectorStore interface {
	Store(ctx context.Context, rec *EmbeddingRecord) error
	// Lookup returns the embedding record for (itemType, itemID).
	// When several records exist for the pair, the most recently created
	// one wins. Returns ErrNotFound if no record exists.
	Lookup(ctx context.Context, itemType, itemID string) (*EmbeddingRecord, error)
	// Search returns the k nearest records to query under cosine distance,
	// ordered by ascending distance, restricted by filter.
	Search(ctx context.Context, query []float32, k int, filter SearchFilter) ([]VectorResult, error)
	// DeleteByItem removes all embedding records for (itemType, itemID).
	DeleteByItem(ctx context.Context, itemType, itemID string) error
	Count(ctx context.Context) (int64, error)
	Close() error
}
