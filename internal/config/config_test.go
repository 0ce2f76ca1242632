// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine-dev/vitrine/internal/config"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:18790", cfg.Networking.Listen)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "openai", cfg.Embeddings.Provider)
	assert.Equal(t, 1536, cfg.Embeddings.Dimensions)
	assert.Equal(t, 4, cfg.Recommend.DefaultK)
	assert.Equal(t, 20, cfg.Recommend.MaxK)
	assert.InDelta(t, 0.5, cfg.Recommend.MinSimilarity, 1e-9)
	assert.Equal(t, 3*time.Second, cfg.Recommend.Timeout)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vitrine.yaml")

	content := `
networking:
  listen: "0.0.0.0:9999"
embeddings:
  provider: google
  model: gemini-embedding-001
  dimensions: 768
providers:
  google:
    api_key: "test-key"
recommend:
  default_k: 6
  min_similarity: 0.3
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", cfg.Networking.Listen)
	assert.Equal(t, "google", cfg.Embeddings.Provider)
	assert.Equal(t, 768, cfg.Embeddings.Dimensions)
	assert.Equal(t, 6, cfg.Recommend.DefaultK)
	assert.InDelta(t, 0.3, cfg.Recommend.MinSimilarity, 1e-9)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("VITRINE_NETWORKING_LISTEN", "10.0.0.1:8080")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:8080", cfg.Networking.Listen)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_ValidationCalledAtLoadTime(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vitrine.yaml")

	content := `
embeddings:
  provider: "invalid-provider"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	_, err := config.Load(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embeddings.provider")
}

// validConfig returns a minimal config that passes all validation.
func validConfig() *config.Config {
	return &config.Config{
		Networking: config.NetworkingConfig{
			Listen: "127.0.0.1:18790",
		},
		Storage: config.StorageConfig{
			Backend: "sqlite",
		},
		Embeddings: config.EmbeddingsConfig{
			Provider:   "openai",
			Dimensions: 1536,
		},
		Providers: map[string]config.ProviderConfig{
			"openai": {APIKey: "test-key"},
		},
		Recommend: config.RecommendConfig{
			DefaultK:      4,
			MaxK:          20,
			MinSimilarity: 0.5,
			Timeout:       3 * time.Second,
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, validConfig().Validate())
}

func TestValidate_Networking(t *testing.T) {
	tests := []struct {
		name   string
		listen string
	}{
		{"empty", ""},
		{"no port", "127.0.0.1"},
		{"bad port", "127.0.0.1:notaport"},
		{"negative port", "127.0.0.1:-1"},
		{"port too high", "127.0.0.1:70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Networking.Listen = tt.listen
			assert.NotEmpty(t, cfg.Validate())
		})
	}
}

func TestValidate_NetworkingEmptyHost(t *testing.T) {
	cfg := validConfig()
	cfg.Networking.Listen = ":8080"
	assert.Empty(t, cfg.Validate())
}

func TestValidate_NetworkingEphemeralPort(t *testing.T) {
	// Port 0 asks the OS for an ephemeral port, standard net.Listen behavior.
	cfg := validConfig()
	cfg.Networking.Listen = "127.0.0.1:0"
	assert.Empty(t, cfg.Validate())
}

func TestValidate_UnknownStorageBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = "postgres"
	assert.NotEmpty(t, cfg.Validate())
}

func TestValidate_UnknownEmbeddingProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Embeddings.Provider = "cohere"
	assert.NotEmpty(t, cfg.Validate())
}

func TestValidate_ProviderNotConfigured(t *testing.T) {
	cfg := validConfig()
	cfg.Embeddings.Provider = "google"

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no entry under providers")
}

func TestValidate_NilProvidersSkipsCrossCheck(t *testing.T) {
	// No providers section at all: the API key may come from the
	// environment, so this must validate.
	cfg := validConfig()
	cfg.Providers = nil
	assert.Empty(t, cfg.Validate())
}

func TestValidate_Recommend(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero default_k", func(c *config.Config) { c.Recommend.DefaultK = 0 }},
		{"max_k below default_k", func(c *config.Config) { c.Recommend.MaxK = 2 }},
		{"min_similarity too low", func(c *config.Config) { c.Recommend.MinSimilarity = -1.5 }},
		{"min_similarity too high", func(c *config.Config) { c.Recommend.MinSimilarity = 1.5 }},
		{"zero timeout", func(c *config.Config) { c.Recommend.Timeout = 0 }},
		{"zero dimensions", func(c *config.Config) { c.Embeddings.Dimensions = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.NotEmpty(t, cfg.Validate())
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Networking.Listen = ""
	cfg.Storage.Backend = "bad"
	cfg.Recommend.DefaultK = 0

	errs := cfg.Validate()
	assert.GreaterOrEqual(t, len(errs), 3)
}

func TestBootstrap_DefaultConfigParses(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vitrine.yaml")
	require.NoError(t, os.WriteFile(cfgPath, config.DefaultConfigYAML, 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Embeddings.Provider)
}
