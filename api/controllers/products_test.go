package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/ecofinds-backend/api/middleware"
	"github.com/ecofinds/ecofinds-backend/internal/catalog"
	"github.com/ecofinds/ecofinds-backend/pkg/pagination"
)

type stubCatalogService struct {
	created    *catalog.CreateProductInput
	deleted    *uuid.UUID
	listInput  *catalog.ListProductsInput
	product    *catalog.ProductDTO
	listResult *catalog.ProductListResult
	err        error
}

func (s *stubCatalogService) CreateProduct(_ context.Context, _ uuid.UUID, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	s.created = &input
	return s.product, s.err
}

func (s *stubCatalogService) UpdateProduct(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubCatalogService) DeleteProduct(_ context.Context, _ uuid.UUID, productID uuid.UUID) error {
	s.deleted = &productID
	return s.err
}

func (s *stubCatalogService) GetProduct(_ context.Context, _ uuid.UUID) (*catalog.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubCatalogService) ListProducts(_ context.Context, input catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	s.listInput = &input
	return s.listResult, s.err
}

func (s *stubCatalogService) ListMyProducts(_ context.Context, _ uuid.UUID, _ pagination.Params) (*catalog.ProductListResult, error) {
	return s.listResult, s.err
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func authedContext(userID uuid.UUID) context.Context {
	return middleware.WithUserID(context.Background(), userID)
}

func TestProductCreate(t *testing.T) {
	logg := testLogger()
	sellerID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubCatalogService{product: &catalog.ProductDTO{ID: uuid.New()}}
		body := `{"title":"Vintage lamp","description":"A working mid-century desk lamp.","price":"45.50","category_id":"` + uuid.NewString() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req = req.WithContext(authedContext(sellerID))
		rec := httptest.NewRecorder()

		ProductCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.created == nil || !stub.created.Price.Equal(decimal.RequireFromString("45.50")) {
			t.Fatalf("expected price to reach the service, got %+v", stub.created)
		}
	})

	t.Run("title and description trimmed", func(t *testing.T) {
		stub := &stubCatalogService{product: &catalog.ProductDTO{ID: uuid.New()}}
		body := `{"title":"  Vintage lamp  ","description":"  A working mid-century desk lamp.  ","price":"45.50","category_id":"` + uuid.NewString() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req = req.WithContext(authedContext(sellerID))
		rec := httptest.NewRecorder()

		ProductCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.created == nil || stub.created.Title != "Vintage lamp" {
			t.Fatalf("expected trimmed title, got %+v", stub.created)
		}
		if stub.created.Description != "A working mid-century desk lamp." {
			t.Fatalf("expected trimmed description, got %q", stub.created.Description)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		stub := &stubCatalogService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		ProductCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("missing title rejected", func(t *testing.T) {
		stub := &stubCatalogService{}
		body := `{"description":"A working mid-century desk lamp.","price":"45.50","category_id":"` + uuid.NewString() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		req = req.WithContext(authedContext(sellerID))
		rec := httptest.NewRecorder()

		ProductCreate(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.created != nil {
			t.Fatalf("service should not run on invalid payload")
		}
	})
}

func TestProductDelete(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubCatalogService{}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+productID.String(), nil)
		req = req.WithContext(authedContext(userID))
		req = withRouteParam(req, "productID", productID.String())
		rec := httptest.NewRecorder()

		ProductDelete(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if stub.deleted == nil || *stub.deleted != productID {
			t.Fatalf("expected delete to reach the service")
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		stub := &stubCatalogService{}
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/not-a-uuid", nil)
		req = req.WithContext(authedContext(userID))
		req = withRouteParam(req, "productID", "not-a-uuid")
		rec := httptest.NewRecorder()

		ProductDelete(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProductListAppliesFilters(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()

	stub := &stubCatalogService{listResult: &catalog.ProductListResult{Items: []catalog.ProductDTO{}}}
	target := "/api/v1/products?q=lamp&category_id=" + categoryID.String() + "&skip=20&limit=10"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	ProductList(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.listInput == nil {
		t.Fatalf("expected list input to reach the service")
	}
	if stub.listInput.Filters.Query != "lamp" {
		t.Fatalf("expected query filter, got %q", stub.listInput.Filters.Query)
	}
	if stub.listInput.Filters.CategoryID == nil || *stub.listInput.Filters.CategoryID != categoryID {
		t.Fatalf("expected category filter, got %v", stub.listInput.Filters.CategoryID)
	}
	if stub.listInput.Pagination.Skip != 20 || stub.listInput.Pagination.Limit != 10 {
		t.Fatalf("unexpected pagination: %+v", stub.listInput.Pagination)
	}
}

func TestProductGet(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	stub := &stubCatalogService{product: &catalog.ProductDTO{ID: productID, Title: "Vintage lamp"}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	req = withRouteParam(req, "productID", productID.String())
	rec := httptest.NewRecorder()

	ProductGet(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data catalog.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != productID {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}
