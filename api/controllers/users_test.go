package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ecofinds/ecofinds-backend/internal/users"
)

type stubUserService struct {
	updated *users.UpdateProfileInput
	profile *users.UserDTO
	err     error
}

func (s *stubUserService) GetProfile(_ context.Context, _ uuid.UUID) (*users.UserDTO, error) {
	return s.profile, s.err
}

func (s *stubUserService) UpdateProfile(_ context.Context, _ uuid.UUID, input users.UpdateProfileInput) (*users.UserDTO, error) {
	s.updated = &input
	return s.profile, s.err
}

func TestUserMe(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubUserService{profile: &users.UserDTO{ID: userID, Email: "buyer@example.com"}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req = req.WithContext(authedContext(userID))
		rec := httptest.NewRecorder()

		UserMe(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		stub := &stubUserService{}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		rec := httptest.NewRecorder()

		UserMe(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestUserUpdateMe(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubUserService{profile: &users.UserDTO{ID: userID}}
		body := `{"username":"greener","phone":"+15550100"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(body))
		req = req.WithContext(authedContext(userID))
		rec := httptest.NewRecorder()

		UserUpdateMe(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.updated == nil || stub.updated.Username == nil || *stub.updated.Username != "greener" {
			t.Fatalf("expected username to reach the service, got %+v", stub.updated)
		}
	})

	t.Run("short username rejected", func(t *testing.T) {
		stub := &stubUserService{}
		req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me", strings.NewReader(`{"username":"ab"}`))
		req = req.WithContext(authedContext(userID))
		rec := httptest.NewRecorder()

		UserUpdateMe(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.updated != nil {
			t.Fatalf("service should not run on invalid payload")
		}
	})
}
