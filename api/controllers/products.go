package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/ecofinds-backend/api/middleware"
	"github.com/ecofinds/ecofinds-backend/api/responses"
	"github.com/ecofinds/ecofinds-backend/api/validators"
	"github.com/ecofinds/ecofinds-backend/internal/catalog"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
	"github.com/ecofinds/ecofinds-backend/pkg/logger"
)

type createProductRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"required,min=10,max=5000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	ImageURL    *string         `json:"image_url" validate:"omitempty,url,max=2048"`
	CategoryID  uuid.UUID       `json:"category_id" validate:"required"`
}

type updateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description" validate:"omitempty,min=10,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url,max=2048"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	IsAvailable *bool            `json:"is_available"`
}

func productIDFromPath(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "productID"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

// ProductCreate publishes a new listing owned by the authenticated user.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sellerID := middleware.UserIDFromContext(r.Context())
		if sellerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), sellerID, catalog.CreateProductInput{
			Title:       validators.SanitizeString(body.Title, 200),
			Description: validators.SanitizeString(body.Description, 5000),
			Price:       body.Price,
			ImageURL:    body.ImageURL,
			CategoryID:  body.CategoryID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate applies a partial update to a listing owned by the caller.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.Title != nil {
			title := validators.SanitizeString(*body.Title, 200)
			body.Title = &title
		}
		if body.Description != nil {
			description := validators.SanitizeString(*body.Description, 5000)
			body.Description = &description
		}

		product, err := svc.UpdateProduct(r.Context(), userID, productID, catalog.UpdateProductInput{
			Title:       body.Title,
			Description: body.Description,
			Price:       body.Price,
			ImageURL:    body.ImageURL,
			CategoryID:  body.CategoryID,
			IsAvailable: body.IsAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a listing owned by the caller.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), userID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteNoContent(w)
	}
}

// ProductGet returns one listing with its category and seller summary. Sold
// listings stay readable so purchase links never break.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductList serves the public browse feed with search and category filters.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Filters: catalog.ListFilters{
				CategoryID: categoryID,
				Query:      validators.SanitizeString(r.URL.Query().Get("q"), 200),
			},
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductListMine returns the caller's own listings, sold ones included.
func ProductListMine(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sellerID := middleware.UserIDFromContext(r.Context())
		if sellerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMyProducts(r.Context(), sellerID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
