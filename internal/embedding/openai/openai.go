// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package openai

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/vitrine-dev/vitrine/internal/embedding"
	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "text-embedding-3-small"

// Config holds OpenAI embedder configuration.
type Config struct {
	APIKey     string
	BaseURL    string // optional, useful for testing against a mock server
	Model      string
	Dimensions int // optional; 0 uses the model's native dimensionality
}

// Compile-time interface check.
var _ embedding.Embedder = (*Embedder)(nil)

// Embedder implements embedding.Embedder using the OpenAI Embeddings API.
type Embedder struct {
	client openaisdk.Client
	config Config
}

// New creates a new OpenAI embedder. Returns an error if the API key is missing.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, vitrerr.New(vitrerr.CodeEmbeddingProviderInvalid, "openai: missing api_key in config",
			vitrerr.FieldProvider("openai"))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Embedder{client: openaisdk.NewClient(opts...), config: cfg}, nil
}

func (e *Embedder) Name() string { return "openai" }

// Embed returns the embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, vitrerr.New(vitrerr.CodeEmbeddingProviderInvalid, "openai: empty input text")
	}

	params := openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfString: openaisdk.String(text)},
		Model: openaisdk.EmbeddingModel(e.config.Model),
	}
	if e.config.Dimensions > 0 {
		params.Dimensions = openaisdk.Int(int64(e.config.Dimensions))
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, vitrerr.Wrapf(err, vitrerr.CodeEmbeddingUpstreamFailure, "openai: embedding request")
	}
	if len(resp.Data) == 0 {
		return nil, vitrerr.New(vitrerr.CodeEmbeddingResponseInvalid, "openai: response contains no embeddings")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}
