// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package embedding

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitrine-dev/vitrine/internal/store"
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// Indexer writes catalog records and keeps their embeddings in sync.
// Embeddings are logically replaced, never mutated: indexing deletes any
// prior records for the product before storing the fresh one, so at most
// one active embedding exists per product.
type Indexer struct {
	embedder Embedder
	catalog  store.CatalogStore
	vectors  store.VectorStore
}

// NewIndexer creates an Indexer.
func NewIndexer(embedder Embedder, catalog store.CatalogStore, vectors store.VectorStore) *Indexer {
	return &Indexer{embedder: embedder, catalog: catalog, vectors: vectors}
}

// IndexProduct upserts the catalog record and (re)generates its embedding.
func (ix *Indexer) IndexProduct(ctx context.Context, p *store.Product) error {
	if p == nil || p.ID == "" {
		return vitrerr.New(vitrerr.CodeEmbeddingIndexFailure, "indexing requires a product with an id")
	}

	if err := ix.catalog.Put(ctx, p); err != nil {
		return vitrerr.Wrapf(err, vitrerr.CodeEmbeddingIndexFailure, "storing product %s", p.ID)
	}

	vec, err := ix.embedder.Embed(ctx, EmbeddingText(p))
	if err != nil {
		return vitrerr.Wrap(err, vitrerr.CodeEmbeddingIndexFailure, "embedding product",
			vitrerr.FieldItemID(p.ID), vitrerr.FieldProvider(ix.embedder.Name()))
	}

	if err := ix.vectors.DeleteByItem(ctx, store.ItemTypeProduct, p.ID); err != nil {
		return vitrerr.Wrapf(err, vitrerr.CodeEmbeddingIndexFailure, "replacing embeddings for product %s", p.ID)
	}

	rec := &store.EmbeddingRecord{
		ID:        uuid.NewString(),
		Vector:    vec,
		Type:      store.ItemTypeProduct,
		ItemID:    p.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := ix.vectors.Store(ctx, rec); err != nil {
		return vitrerr.Wrapf(err, vitrerr.CodeEmbeddingIndexFailure, "storing embedding for product %s", p.ID)
	}

	return nil
}

// DeleteProduct removes the catalog record and all of its embeddings,
// keeping the two stores consistent.
func (ix *Indexer) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return vitrerr.New(vitrerr.CodeEmbeddingIndexFailure, "deleting requires a product id")
	}

	if err := ix.vectors.DeleteByItem(ctx, store.ItemTypeProduct, id); err != nil {
		return vitrerr.Wrapf(err, vitrerr.CodeEmbeddingIndexFailure, "deleting embeddings for product %s", id)
	}

	if err := ix.catalog.Delete(ctx, id); err != nil {
		return vitrerr.Wrapf(err, vitrerr.CodeEmbeddingIndexFailure, "deleting product %s", id)
	}

	return nil
}

// EmbeddingText renders the descriptive content of a product into the text
// that gets embedded. Changing this changes what "similar" means, so keep
// it stable across re-indexing runs.
func EmbeddingText(p *store.Product) string {
	parts := make([]string, 0, 3)
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if p.Description != "" {
		parts = append(parts, p.Description)
	}
	return strings.Join(parts, "\n")
}
