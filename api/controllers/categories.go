package controllers

import (
	"net/http"

	"github.com/ecofinds/ecofinds-backend/api/responses"
	"github.com/ecofinds/ecofinds-backend/api/validators"
	"github.com/ecofinds/ecofinds-backend/internal/catalog"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
	"github.com/ecofinds/ecofinds-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CategoryCreate adds a new shared product category.
func CategoryCreate(svc catalog.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), catalog.CreateCategoryInput{
			Name:        validators.SanitizeString(body.Name, 100),
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// CategoryList returns every category, ordered by name.
func CategoryList(svc catalog.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}
