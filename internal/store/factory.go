// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package store

import (
	"sync"

	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// defaultVectorDimensions is the default embedding dimension (matches OpenAI text-embedding-3-small).
const defaultVectorDimensions = 1536

// StorageConfig controls which backend the store factory uses.
type StorageConfig struct {
	Backend          string // "sqlite" is the only supported backend for now.
	VectorDimensions int    // Embedding dimensions; 0 uses the default (1536).
}

// BackendFactory creates the catalog and vector stores for a backend given
// a data directory path and vector dimensions.
type BackendFactory func(dataPath string, vectorDims int) (CatalogStore, VectorStore, error)

var (
	backendFactories = map[string]BackendFactory{}
	factoriesMu      sync.RWMutex
)

// RegisterBackend registers a factory function for a named storage backend.
// Backend packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, factory BackendFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	backendFactories[name] = factory
}

// resolveBackend returns the effective backend name, defaulting to "sqlite".
func resolveBackend(cfg *StorageConfig) string {
	if cfg.Backend == "" {
		return "sqlite"
	}
	return cfg.Backend
}

// NewStores creates the catalog and vector stores for the configured backend.
// The dataPath directory is used to derive per-database file paths.
func NewStores(cfg *StorageConfig, dataPath string) (CatalogStore, VectorStore, error) {
	backend := resolveBackend(cfg)

	factoriesMu.RLock()
	factory, ok := backendFactories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, nil, vitrerr.Errorf(vitrerr.CodeStoreBackendUnsupported, "unsupported storage backend: %q", backend)
	}

	dims := defaultVectorDimensions
	if cfg.VectorDimensions > 0 {
		dims = cfg.VectorDimensions
	}

	return factory(dataPath, dims)
}
