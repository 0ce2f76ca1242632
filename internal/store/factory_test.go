// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package store_test

import (
	"testing"

	"github.com/vitrine-dev/vitrine/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStores_UnsupportedBackend(t *testing.T) {
	_, _, err := store.NewStores(&store.StorageConfig{Backend: "postgres"}, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage backend")
}

func TestNewStores_RegisteredBackend(t *testing.T) {
	var gotPath string
	var gotDims int
	store.RegisterBackend("fake", func(dataPath string, vectorDims int) (store.CatalogStore, store.VectorStore, error) {
		gotPath = dataPath
		gotDims = vectorDims
		return nil, nil, nil
	})

	dir := t.TempDir()
	_, _, err := store.NewStores(&store.StorageConfig{Backend: "fake", VectorDimensions: 768}, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, gotPath)
	assert.Equal(t, 768, gotDims)
}

func TestNewStores_DefaultDimensions(t *testing.T) {
	var gotDims int
	store.RegisterBackend("fake-dims", func(_ string, vectorDims int) (store.CatalogStore, store.VectorStore, error) {
		gotDims = vectorDims
		return nil, nil, nil
	})

	_, _, err := store.NewStores(&store.StorageConfig{Backend: "fake-dims"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1536, gotDims)
}
