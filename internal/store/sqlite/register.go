// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package sqlite

import (
	"fmt"
	"path/filepath"

	"github.com/vitrine-dev/vitrine/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", newStores)
}

func newStores(dataPath string, vectorDims int) (store.CatalogStore, store.VectorStore, error) {
	cs, err := NewCatalogStore(filepath.Join(dataPath, "catalog.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating catalog store: %w", err)
	}

	vs, err := NewVectorStore(filepath.Join(dataPath, "embeddings.db"), vectorDims)
	if err != nil {
		_ = cs.Close()
		return nil, nil, fmt.Errorf("creating vector store: %w", err)
	}

	return cs, vs, nil
}
