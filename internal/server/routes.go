// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// RegisterServices sets the service dependencies and registers REST routes.
func (s *Server) RegisterServices(svc *Services) {
	s.services = svc
	s.registerRoutes()
}

func (s *Server) registerRoutes() {
	// Product catalog endpoints
	huma.Register(s.api, huma.Operation{
		OperationID: "list-products",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "List products",
		Tags:        []string{"products"},
	}, s.handleListProducts)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get product details",
		Tags:        []string{"products"},
	}, s.handleGetProduct)

	huma.Register(s.api, huma.Operation{
		OperationID:   "create-product",
		Method:        http.MethodPost,
		Path:          "/api/v1/products",
		Summary:       "Create or replace a product",
		Tags:          []string{"products"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-product",
		Method:      http.MethodDelete,
		Path:        "/api/v1/products/{id}",
		Summary:     "Delete a product",
		Tags:        []string{"products"},
	}, s.handleDeleteProduct)

	// Recommendation endpoint
	huma.Register(s.api, huma.Operation{
		OperationID: "product-recommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}/recommendations",
		Summary:     "Get similar products",
		Description: "Returns products similar to the given one, most similar first. Backend failures and unknown products yield an empty list, never an error.",
		Tags:        []string{"recommendations"},
	}, s.handleRecommendations)

	// Status endpoint
	huma.Register(s.api, huma.Operation{
		OperationID: "service-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Service status",
		Tags:        []string{"system"},
	}, s.handleStatus)
}

// --- Request/Response types for huma ---

type listProductsInput struct {
	Limit  int `query:"limit" doc:"Maximum number of products to return; 0 means no limit"`
	Offset int `query:"offset" doc:"Number of products to skip"`
}
type listProductsOutput struct {
	Body struct {
		Products []ProductSummary `json:"products"`
		Total    int64            `json:"total" doc:"Total number of products in the catalog"`
	}
}

type productIDInput struct {
	ID string `path:"id"`
}
type getProductOutput struct {
	Body ProductDetail
}

type createProductInput struct {
	Body ProductInput
}
type createProductOutput struct {
	Body ProductDetail
}

type deleteProductOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

type recommendationsInput struct {
	ID string `path:"id"`
	K  int    `query:"k" doc:"Number of recommendations to return; 0 uses the server default, values above the configured maximum are clamped"`
}
type recommendationsOutput struct {
	Body struct {
		Items []RecommendationItem `json:"items"`
		Total int                  `json:"total" doc:"Number of items returned"`
	}
}

type statusOutput struct {
	Body StatusInfo
}

// --- Handlers ---

func (s *Server) handleListProducts(ctx context.Context, input *listProductsInput) (*listProductsOutput, error) {
	products, total, err := s.services.Catalog.List(ctx, input.Limit, input.Offset)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing products", err)
	}
	out := &listProductsOutput{}
	out.Body.Products = products
	out.Body.Total = total
	return out, nil
}

func (s *Server) handleGetProduct(ctx context.Context, input *productIDInput) (*getProductOutput, error) {
	p, err := s.services.Catalog.Get(ctx, input.ID)
	if err != nil {
		if IsNotFound(err) {
			return nil, huma.Error404NotFound(fmt.Sprintf("product %q not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("getting product", err)
	}
	return &getProductOutput{Body: *p}, nil
}

func (s *Server) handleCreateProduct(ctx context.Context, input *createProductInput) (*createProductOutput, error) {
	p, err := s.services.Catalog.Create(ctx, input.Body)
	if err != nil {
		if vitrerr.IsInvalidInput(err) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		if vitrerr.IsUpstreamFailure(err) {
			return nil, huma.Error502BadGateway("embedding provider failure", err)
		}
		return nil, huma.Error500InternalServerError("creating product", err)
	}
	return &createProductOutput{Body: *p}, nil
}

func (s *Server) handleDeleteProduct(ctx context.Context, input *productIDInput) (*deleteProductOutput, error) {
	if err := s.services.Catalog.Delete(ctx, input.ID); err != nil {
		if IsNotFound(err) {
			return nil, huma.Error404NotFound(fmt.Sprintf("product %q not found", input.ID))
		}
		return nil, huma.Error500InternalServerError("deleting product", err)
	}
	out := &deleteProductOutput{}
	out.Body.Status = "deleted"
	return out, nil
}

func (s *Server) handleRecommendations(ctx context.Context, input *recommendationsInput) (*recommendationsOutput, error) {
	items, err := s.services.Recommendations.ForProduct(ctx, input.ID, input.K)
	if err != nil {
		// The service degrades to empty results on backend failures, so any
		// error here is an input problem.
		if vitrerr.IsInvalidInput(err) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("computing recommendations", err)
	}

	out := &recommendationsOutput{}
	out.Body.Items = items
	if out.Body.Items == nil {
		out.Body.Items = []RecommendationItem{}
	}
	out.Body.Total = len(out.Body.Items)
	return out, nil
}

func (s *Server) handleStatus(ctx context.Context, _ *struct{}) (*statusOutput, error) {
	info, err := s.services.Status.Status(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("reading status", err)
	}
	return &statusOutput{Body: *info}, nil
}
