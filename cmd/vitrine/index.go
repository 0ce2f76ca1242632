// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vitrine-dev/vitrine/internal/config"
	"github.com/vitrine-dev/vitrine/internal/embedding"
	"github.com/vitrine-dev/vitrine/internal/secrets"
	"github.com/vitrine-dev/vitrine/internal/store"
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// seedProduct is one catalog entry in a seed file.
type seedProduct struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	PriceCents  int64  `yaml:"price_cents"`
	Currency    string `yaml:"currency"`
	ImageURL    string `yaml:"image_url"`
	VideoURL    string `yaml:"video_url"`
	Active      *bool  `yaml:"active"`
}

// seedFile is the top-level structure of a seed file.
type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Bulk-index products from a seed file",
		Long:  "Read products from a YAML seed file, store them in the catalog, and generate an embedding for each.",
		RunE:  runIndex,
	}

	cmd.Flags().StringP("file", "f", "", "path to YAML seed file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runIndex(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	secrets.ResolveViperSecrets(v, secrets.NewKeyringStore())

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("file")
	seed, err := loadSeedFile(path)
	if err != nil {
		return err
	}
	if len(seed.Products) == 0 {
		return vitrerr.Errorf(vitrerr.CodeCLIInputInvalid, "seed file %s contains no products", path)
	}

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "creating data directory: %w", err)
	}

	catalog, vectors, err := store.NewStores(&store.StorageConfig{
		Backend:          cfg.Storage.Backend,
		VectorDimensions: cfg.Embeddings.Dimensions,
	}, dataDir)
	if err != nil {
		return vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "creating stores: %w", err)
	}
	defer func() {
		_ = catalog.Close()
		_ = vectors.Close()
	}()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	indexer := embedding.NewIndexer(embedder, catalog, vectors)

	ctx := cmd.Context()
	indexed, failed := 0, 0
	for _, sp := range seed.Products {
		p := seedToProduct(sp)
		if err := indexer.IndexProduct(ctx, p); err != nil {
			slog.Warn("failed to index product", "item_id", p.ID, "title", p.Title, "error", err)
			failed++
			continue
		}
		indexed++
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d products (%d failed) from %s\n", indexed, failed, path)

	if indexed == 0 {
		return vitrerr.Errorf(vitrerr.CodeCLISetupFailure, "indexing failed for all %d products", failed)
	}
	return nil
}

func loadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vitrerr.Errorf(vitrerr.CodeCLIInputInvalid, "reading seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, vitrerr.Errorf(vitrerr.CodeCLIInputInvalid, "parsing seed file %s: %w", path, err)
	}
	return &seed, nil
}

func seedToProduct(sp seedProduct) *store.Product {
	now := time.Now().UTC()
	p := &store.Product{
		ID:          sp.ID,
		Title:       sp.Title,
		Description: sp.Description,
		Category:    sp.Category,
		PriceCents:  sp.PriceCents,
		Currency:    sp.Currency,
		ImageURL:    sp.ImageURL,
		VideoURL:    sp.VideoURL,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if sp.Active != nil {
		p.Active = *sp.Active
	}
	return p
}
