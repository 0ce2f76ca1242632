// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package recommend_test

import (
	"context"

	"github.com/vitrine-dev/vitrine/internal/store"
)

// fakeVectorStore implements store.VectorStore with overridable behavior.
type fakeVectorStore struct {
	lookupFn func(ctx context.Context, itemType, itemID string) (*store.EmbeddingRecord, error)
	searchFn func(ctx context.Context, query []float32, k int, filter store.SearchFilter) ([]store.VectorResult, error)

	searchCalls []searchCall
}

type searchCall struct {
	k      int
	filter store.SearchFilter
}

func (f *fakeVectorStore) Store(context.Context, *store.EmbeddingRecord) error { return nil }

func (f *fakeVectorStore) Lookup(ctx context.Context, itemType, itemID string) (*store.EmbeddingRecord, error) {
	return f.lookupFn(ctx, itemType, itemID)
}

func (f *fakeVectorStore) Search(ctx context.Context, query []float32, k int, filter store.SearchFilter) ([]store.VectorResult, error) {
	f.searchCalls = append(f.searchCalls, searchCall{k: k, filter: filter})
	return f.searchFn(ctx, query, k, filter)
}

func (f *fakeVectorStore) DeleteByItem(context.Context, string, string) error { return nil }
func (f *fakeVectorStore) Count(context.Context) (int64, error)               { return 0, nil }
func (f *fakeVectorStore) Close() error                                       { return nil }

// fakeCatalogStore implements store.CatalogStore with overridable bulk lookup.
type fakeCatalogStore struct {
	getByIDsFn func(ctx context.Context, ids []string) ([]*store.Product, error)

	bulkCalls int
}

func (f *fakeCatalogStore) Put(context.Context, *store.Product) error { return nil }

func (f *fakeCatalogStore) Get(_ context.Context, id string) (*store.Product, error) {
	return nil, store.ErrNotFound
}

func (f *fakeCatalogStore) GetByIDs(ctx context.Context, ids []string) ([]*store.Product, error) {
	f.bulkCalls++
	return f.getByIDsFn(ctx, ids)
}

func (f *fakeCatalogStore) List(context.Context, store.ListOpts) ([]*store.Product, error) {
	return nil, nil
}
func (f *fakeCatalogStore) Delete(context.Context, string) error  { return nil }
func (f *fakeCatalogStore) Count(context.Context) (int64, error)  { return 0, nil }
func (f *fakeCatalogStore) Close() error                          { return nil }

// floorOf builds the similarity floor pointer EngineConfig takes.
func floorOf(v float64) *float64 { return &v }

// productEmbedding returns a lookup func serving one source embedding.
func productEmbedding(itemID string, vec []float32) func(context.Context, string, string) (*store.EmbeddingRecord, error) {
	return func(_ context.Context, itemType, id string) (*store.EmbeddingRecord, error) {
		if itemType == store.ItemTypeProduct && id == itemID {
			return &store.EmbeddingRecord{ID: "e-" + itemID, Vector: vec, Type: itemType, ItemID: itemID}, nil
		}
		return nil, store.ErrNotFound
	}
}

// neighbors returns a search func serving a fixed candidate list.
func neighbors(results ...store.VectorResult) func(context.Context, []float32, int, store.SearchFilter) ([]store.VectorResult, error) {
	return func(context.Context, []float32, int, store.SearchFilter) ([]store.VectorResult, error) {
		return results, nil
	}
}
