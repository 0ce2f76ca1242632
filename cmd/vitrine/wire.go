// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/vitrine-dev/vitrine/internal/config"
	"github.com/vitrine-dev/vitrine/internal/embedding"
	googleemb "github.com/vitrine-dev/vitrine/internal/embedding/google"
	openaiemb "github.com/vitrine-dev/vitrine/internal/embedding/openai"
	"github.com/vitrine-dev/vitrine/internal/recommend"
	"github.com/vitrine-dev/vitrine/internal/server"
	"github.com/vitrine-dev/vitrine/internal/store"
	_ "github.com/vitrine-dev/vitrine/internal/store/sqlite" // register sqlite backend
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// Service holds all wired subsystems and manages their lifecycle.
type Service struct {
	Server      *server.Server
	Catalog     store.CatalogStore
	Vectors     store.VectorStore
	Recommender *recommend.Recommender
	Indexer     *embedding.Indexer
}

// embedderFactory builds an Embedder from the loaded configuration.
type embedderFactory func(*config.Config, config.ProviderConfig) (embedding.Embedder, error)

// embedderFactories maps provider names to their constructors.
// Declared as a variable so tests can inject failing factories.
var embedderFactories = map[string]embedderFactory{
	"openai": func(cfg *config.Config, pc config.ProviderConfig) (embedding.Embedder, error) {
		return openaiemb.New(openaiemb.Config{
			APIKey:     pc.APIKey,
			BaseURL:    pc.Endpoint,
			Model:      cfg.Embeddings.Model,
			Dimensions: cfg.Embeddings.Dimensions,
		})
	},
	"google": func(cfg *config.Config, pc config.ProviderConfig) (embedding.Embedder, error) {
		return googleemb.New(googleemb.Config{
			APIKey:     pc.APIKey,
			Model:      cfg.Embeddings.Model,
			Dimensions: cfg.Embeddings.Dimensions,
		})
	},
}

func newEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	name := cfg.Embeddings.Provider
	factory, ok := embedderFactories[name]
	if !ok {
		return nil, vitrerr.New(vitrerr.CodeEmbeddingProviderNotFound, "unknown embedding provider",
			vitrerr.FieldProvider(name))
	}

	pc := cfg.Providers[name]
	if pc.APIKey == "" {
		return nil, vitrerr.New(vitrerr.CodeEmbeddingProviderInvalid, "embedding provider has no api_key configured",
			vitrerr.FieldProvider(name))
	}

	return factory(cfg, pc)
}

// WireService creates all subsystems and wires them together.
// The dataDir is the root directory for all persistent state.
func WireService(_ context.Context, cfg *config.Config, dataDir string) (*Service, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "creating data directory: %w", err)
	}

	// 1. Catalog and vector stores.
	storeCfg := &store.StorageConfig{
		Backend:          cfg.Storage.Backend,
		VectorDimensions: cfg.Embeddings.Dimensions,
	}
	catalog, vectors, err := store.NewStores(storeCfg, dataDir)
	if err != nil {
		return nil, vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "creating stores: %w", err)
	}

	closeStores := func() {
		_ = catalog.Close()
		_ = vectors.Close()
	}

	// 2. Embedding provider and indexer.
	embedder, err := newEmbedder(cfg)
	if err != nil {
		closeStores()
		return nil, err
	}
	indexer := embedding.NewIndexer(embedder, catalog, vectors)

	// 3. Recommendation pipeline.
	engine := recommend.NewEngine(vectors, recommend.EngineConfig{
		DefaultK:      cfg.Recommend.DefaultK,
		MinSimilarity: &cfg.Recommend.MinSimilarity,
	})
	assembler := recommend.NewAssembler(catalog)
	recommender := recommend.NewRecommender(engine, assembler, recommend.RecommenderConfig{
		MaxK:    cfg.Recommend.MaxK,
		Timeout: cfg.Recommend.Timeout,
	})

	// 4. HTTP server with service adapters.
	services, err := server.NewServices(
		&catalogServiceAdapter{catalog: catalog, indexer: indexer},
		&recommendationServiceAdapter{recommender: recommender},
		&statusServiceAdapter{catalog: catalog, vectors: vectors, provider: cfg.Embeddings.Provider},
	)
	if err != nil {
		closeStores()
		return nil, vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "creating services: %w", err)
	}

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Networking.Listen,
		CORSOrigins: cfg.Networking.CORSOrigins,
	})
	if err != nil {
		closeStores()
		return nil, vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "creating server: %w", err)
	}
	srv.RegisterServices(services)

	return &Service{
		Server:      srv,
		Catalog:     catalog,
		Vectors:     vectors,
		Recommender: recommender,
		Indexer:     indexer,
	}, nil
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	return s.Server.Start(ctx)
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	var errs []error
	if s.Catalog != nil {
		if err := s.Catalog.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Vectors != nil {
		if err := s.Vectors.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// --- Service adapters ---

func toSummary(p *store.Product) server.ProductSummary {
	return server.ProductSummary{
		ID:         p.ID,
		Title:      p.Title,
		Category:   p.Category,
		PriceCents: p.PriceCents,
		Currency:   p.Currency,
		ImageURL:   p.ImageURL,
		Active:     p.Active,
	}
}

func toDetail(p *store.Product) *server.ProductDetail {
	return &server.ProductDetail{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		PriceCents:  p.PriceCents,
		Currency:    p.Currency,
		ImageURL:    p.ImageURL,
		VideoURL:    p.VideoURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// catalogServiceAdapter bridges the catalog store and indexer to the server's
// CatalogService.
type catalogServiceAdapter struct {
	catalog store.CatalogStore
	indexer *embedding.Indexer
}

func (a *catalogServiceAdapter) List(ctx context.Context, limit, offset int) ([]server.ProductSummary, int64, error) {
	products, err := a.catalog.List(ctx, store.ListOpts{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	total, err := a.catalog.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	out := make([]server.ProductSummary, len(products))
	for i, p := range products {
		out[i] = toSummary(p)
	}
	return out, total, nil
}

func (a *catalogServiceAdapter) Get(ctx context.Context, id string) (*server.ProductDetail, error) {
	p, err := a.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, vitrerr.Errorf(vitrerr.CodeServerEntityNotFound, "product %q not found", id)
		}
		return nil, err
	}
	return toDetail(p), nil
}

func (a *catalogServiceAdapter) Create(ctx context.Context, input server.ProductInput) (*server.ProductDetail, error) {
	now := time.Now().UTC()
	p := &store.Product{
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		PriceCents:  input.PriceCents,
		Currency:    input.Currency,
		ImageURL:    input.ImageURL,
		VideoURL:    input.VideoURL,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if input.Active != nil {
		p.Active = *input.Active
	}

	if err := a.indexer.IndexProduct(ctx, p); err != nil {
		return nil, err
	}
	return toDetail(p), nil
}

func (a *catalogServiceAdapter) Delete(ctx context.Context, id string) error {
	if _, err := a.catalog.Get(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return vitrerr.Errorf(vitrerr.CodeServerEntityNotFound, "product %q not found", id)
		}
		return err
	}
	return a.indexer.DeleteProduct(ctx, id)
}

// recommendationServiceAdapter bridges the recommender to the server's
// RecommendationService.
type recommendationServiceAdapter struct {
	recommender *recommend.Recommender
}

func (a *recommendationServiceAdapter) ForProduct(ctx context.Context, id string, k int) ([]server.RecommendationItem, error) {
	recs, err := a.recommender.GetRecommendations(ctx, id, k)
	if err != nil {
		return nil, err
	}

	out := make([]server.RecommendationItem, len(recs))
	for i, r := range recs {
		out[i] = server.RecommendationItem{
			ProductSummary: toSummary(&r.Product),
			Similarity:     r.Similarity,
		}
	}
	return out, nil
}

// statusServiceAdapter reports store counters for the status endpoint.
type statusServiceAdapter struct {
	catalog  store.CatalogStore
	vectors  store.VectorStore
	provider string
}

func (a *statusServiceAdapter) Status(ctx context.Context) (*server.StatusInfo, error) {
	products, err := a.catalog.Count(ctx)
	if err != nil {
		return nil, err
	}
	embeddings, err := a.vectors.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &server.StatusInfo{
		Status:     "ok",
		Products:   products,
		Embeddings: embeddings,
		Provider:   a.provider,
	}, nil
}
