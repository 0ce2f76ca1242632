// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package sqlite_test

import (
	"context"
	"testing"

	"github.com/vitrine-dev/vitrine/internal/store"
	"github.com/vitrine-dev/vitrine/internal/store/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, title string) *store.Product {
	return &store.Product{
		ID:         id,
		Title:      title,
		Category:   "apparel",
		PriceCents: 2500,
		Currency:   "USD",
		Active:     true,
	}
}

func TestCatalogStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	cs, err := sqlite.NewCatalogStore(testDBPath(t, "catalog"))
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	p := product("p1", "Linen shirt")
	p.Description = "Breathable summer shirt"
	require.NoError(t, cs.Put(ctx, p))

	got, err := cs.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Linen shirt", got.Title)
	assert.Equal(t, "Breathable summer shirt", got.Description)
	assert.Equal(t, int64(2500), got.PriceCents)
	assert.True(t, got.Active)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCatalogStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	cs, err := sqlite.NewCatalogStore(testDBPath(t, "catalog-miss"))
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	_, err = cs.Get(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalogStore_PutUpsert(t *testing.T) {
	ctx := context.Background()
	cs, err := sqlite.NewCatalogStore(testDBPath(t, "catalog-upsert"))
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	require.NoError(t, cs.Put(ctx, product("p1", "Old title")))
	require.NoError(t, cs.Put(ctx, product("p1", "New title")))

	got, err := cs.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)

	n, err := cs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCatalogStore_PutEmptyID(t *testing.T) {
	ctx := context.Background()
	cs, err := sqlite.NewCatalogStore(testDBPath(t, "catalog-badid"))
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	err = cs.Put(ctx, product("", "No id"))
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestCatalogStore_GetByIDs(t *testing.T) {
	ctx := context.Background()
	cs, err := sqlite.NewCatalogStore(testDBPath(t, "catalog-bulk"))
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	for _, p := range []*store.Product{
		product("p1", "One"),
		product("p2", "Two"),
		product("p3", "Three"),
	} {
		require.NoError(t, cs.Put(ctx, p))
	}

	// Missing ids are silently omitted, not errors.
	got, err := cs.GetByIDs(ctx, []string{"p3", "p1", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	ids := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{"p1", "p3"}, ids)
}

func TestCatalogStore_GetByIDsEmpty(t *testing.T) {
	ctx := context.Background()
	cs, err := sqlite.NewCatalogStore(testDBPath(t, "catalog-bulk-empty"))
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	got, err := cs.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalogStore_Delete(t *testing.T) {
	ctx := context.Background()
	cs, err := sqlite.NewCatalogStore(testDBPath(t, "catalog-delete"))
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	require.NoError(t, cs.Put(ctx, product("p1", "Doomed")))
	require.NoError(t, cs.Delete(ctx, "p1"))

	_, err = cs.Get(ctx, "p1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting a missing product is not an error.
	require.NoError(t, cs.Delete(ctx, "p1"))
}

func TestCatalogStore_List(t *testing.T) {
	ctx := context.Background()
	cs, err := sqlite.NewCatalogStore(testDBPath(t, "catalog-list"))
	require.NoError(t, err)
	defer func() { _ = cs.Close() }()

	for _, p := range []*store.Product{
		product("p1", "One"),
		product("p2", "Two"),
		product("p3", "Three"),
	} {
		require.NoError(t, cs.Put(ctx, p))
	}

	got, err := cs.List(ctx, store.ListOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	rest, err := cs.List(ctx, store.ListOpts{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
