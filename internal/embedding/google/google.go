// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package google

import (
	"context"

	"google.golang.org/genai"

	"github.com/vitrine-dev/vitrine/internal/embedding"
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-embedding-001"

// Config holds Google embedder configuration.
type Config struct {
	APIKey     string
	Model      string
	Dimensions int // optional; 0 uses the model's native dimensionality
}

// Compile-time interface check.
var _ embedding.Embedder = (*Embedder)(nil)

// Embedder implements embedding.Embedder using the Gemini API.
type Embedder struct {
	client *genai.Client
	config Config
}

// New creates a new Google embedder. Returns an error if the API key is missing.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, vitrerr.New(vitrerr.CodeEmbeddingProviderInvalid, "google: missing api_key in config",
			vitrerr.FieldProvider("google"))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, vitrerr.Wrapf(err, vitrerr.CodeEmbeddingUpstreamFailure, "google: creating client")
	}

	return &Embedder{client: client, config: cfg}, nil
}

func (e *Embedder) Name() string { return "google" }

// Embed returns the embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, vitrerr.New(vitrerr.CodeEmbeddingProviderInvalid, "google: empty input text")
	}

	var config *genai.EmbedContentConfig
	if e.config.Dimensions > 0 {
		config = &genai.EmbedContentConfig{
			OutputDimensionality: genai.Ptr(int32(e.config.Dimensions)),
		}
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.config.Model, genai.Text(text), config)
	if err != nil {
		return nil, vitrerr.Wrapf(err, vitrerr.CodeEmbeddingUpstreamFailure, "google: embedding request")
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, vitrerr.New(vitrerr.CodeEmbeddingResponseInvalid, "google: response contains no embeddings")
	}

	return resp.Embeddings[0].Values, nil
}
