package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ecofinds/ecofinds-backend/api/middleware"
	"github.com/ecofinds/ecofinds-backend/api/responses"
	"github.com/ecofinds/ecofinds-backend/internal/checkout"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
	"github.com/ecofinds/ecofinds-backend/pkg/logger"
)

// CheckoutExecute converts the caller's cart into a completed purchase.
func CheckoutExecute(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		buyerID := middleware.UserIDFromContext(r.Context())
		if buyerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		purchase, err := svc.Execute(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}
