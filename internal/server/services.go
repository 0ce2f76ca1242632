// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package server

import (
	"context"
	"time"

	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// IsNotFound reports whether err carries the server.entity.not_found code.
// Service implementations should return vitrerr.Errorf(vitrerr.CodeServerEntityNotFound, ...)
// so handlers can distinguish "not found" from internal failures.
func IsNotFound(err error) bool {
	return vitrerr.HasCode(err, vitrerr.CodeServerEntityNotFound)
}

// Services holds dependencies injected into route handlers.
// Each field is an interface so subsystems can be mocked in tests.
// Use the NewServices constructor to ensure all required services are provided.
type Services struct {
	Catalog         CatalogService
	Recommendations RecommendationService
	Status          StatusService
}

// NewServices creates a Services instance with validation.
func NewServices(catalog CatalogService, recs RecommendationService, status StatusService) (*Services, error) {
	if catalog == nil {
		return nil, vitrerr.New(vitrerr.CodeServerConfigInvalid, "catalog service is required")
	}
	if recs == nil {
		return nil, vitrerr.New(vitrerr.CodeServerConfigInvalid, "recommendation service is required")
	}
	if status == nil {
		return nil, vitrerr.New(vitrerr.CodeServerConfigInvalid, "status service is required")
	}
	return &Services{Catalog: catalog, Recommendations: recs, Status: status}, nil
}

// CatalogService provides product catalog operations for REST handlers.
type CatalogService interface {
	List(ctx context.Context, limit, offset int) ([]ProductSummary, int64, error)
	Get(ctx context.Context, id string) (*ProductDetail, error)
	// Create stores the product and generates its embedding. A missing ID is
	// filled in by the implementation.
	Create(ctx context.Context, input ProductInput) (*ProductDetail, error)
	// Delete removes the product and its embeddings.
	Delete(ctx context.Context, id string) error
}

// RecommendationService provides similarity recommendations for REST handlers.
// Implementations degrade to an empty slice on backend failures; an error is
// only returned for invalid input.
type RecommendationService interface {
	ForProduct(ctx context.Context, id string, k int) ([]RecommendationItem, error)
}

// StatusService reports service-level counters for the status endpoint.
type StatusService interface {
	Status(ctx context.Context) (*StatusInfo, error)
}

// ProductSummary is the REST representation of a product in list results.
type ProductSummary struct {
	ID         string `json:"id" doc:"Product identifier"`
	Title      string `json:"title" doc:"Display title"`
	Category   string `json:"category,omitempty" doc:"Category label"`
	PriceCents int64  `json:"price_cents" doc:"Price in minor currency units"`
	Currency   string `json:"currency,omitempty" doc:"ISO 4217 currency code"`
	ImageURL   string `json:"image_url,omitempty" doc:"Primary image URL"`
	Active     bool   `json:"active" doc:"Whether the product is purchasable"`
}

// ProductDetail is the full REST representation of a product.
type ProductDetail struct {
	ID          string    `json:"id" doc:"Product identifier"`
	Title       string    `json:"title" doc:"Display title"`
	Description string    `json:"description,omitempty" doc:"Long-form description"`
	Category    string    `json:"category,omitempty" doc:"Category label"`
	PriceCents  int64     `json:"price_cents" doc:"Price in minor currency units"`
	Currency    string    `json:"currency,omitempty" doc:"ISO 4217 currency code"`
	ImageURL    string    `json:"image_url,omitempty" doc:"Primary image URL"`
	VideoURL    string    `json:"video_url,omitempty" doc:"Product video URL"`
	Active      bool      `json:"active" doc:"Whether the product is purchasable"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// ProductInput is the request body for creating or replacing a product.
type ProductInput struct {
	ID          string `json:"id,omitempty" doc:"Product identifier; generated when empty"`
	Title       string `json:"title" minLength:"1" doc:"Display title"`
	Description string `json:"description,omitempty" doc:"Long-form description"`
	Category    string `json:"category,omitempty" doc:"Category label"`
	PriceCents  int64  `json:"price_cents,omitempty" minimum:"0" doc:"Price in minor currency units"`
	Currency    string `json:"currency,omitempty" doc:"ISO 4217 currency code"`
	ImageURL    string `json:"image_url,omitempty" doc:"Primary image URL"`
	VideoURL    string `json:"video_url,omitempty" doc:"Product video URL"`
	Active      *bool  `json:"active,omitempty" doc:"Whether the product is purchasable; defaults to true"`
}

// RecommendationItem is a recommended product with its similarity score.
type RecommendationItem struct {
	ProductSummary
	Similarity float64 `json:"similarity" minimum:"-1" maximum:"1" doc:"Cosine similarity to the source product"`
}

// StatusInfo is the REST representation of service-level state.
type StatusInfo struct {
	Status     string `json:"status" example:"ok" doc:"Service status"`
	Products   int64  `json:"products" doc:"Number of catalog products"`
	Embeddings int64  `json:"embeddings" doc:"Number of stored embeddings"`
	Provider   string `json:"provider" doc:"Configured embedding provider"`
}
