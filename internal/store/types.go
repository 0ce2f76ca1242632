// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package store

import "time"

// --- Catalog types ---

// Product is a catalog item as stored by the catalog store.
type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	PriceCents  int64
	Currency    string
	ImageURL    string
	VideoURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// --- Vector types ---

// ItemTypeProduct is the metadata type discriminator for product embeddings.
// Other item types (e.g. video transcripts) may share the same vector table.
const ItemTypeProduct = "product"

// EmbeddingRecord is a stored vector with its identifying metadata.
type EmbeddingRecord struct {
	ID        string
	Vector    []float32
	Type      string
	ItemID    string
	CreatedAt time.Time
}

// VectorResult is a single nearest-neighbor match.
// Distance is the store's native cosine distance: lower = more similar,
// 0.0 = identical direction. Similarity conversion is the caller's concern.
type VectorResult struct {
	ID       string
	ItemID   string
	Type     string
	Distance float64
}

// SearchFilter constrains a nearest-neighbor search.
type SearchFilter struct {
	// Type restricts matches to records with this metadata type.
	Type string
	// ExcludeItemID drops records representing this item. A source item
	// must never match itself.
	ExcludeItemID string
}

// --- Query options ---

// ListOpts provides pagination parameters for list operations.
type ListOpts struct {
	Limit  int
	Offset int
}
