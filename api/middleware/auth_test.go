package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgauth "github.com/ecofinds/ecofinds-backend/pkg/auth"
	"github.com/ecofinds/ecofinds-backend/pkg/config"
	"github.com/ecofinds/ecofinds-backend/pkg/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager(t *testing.T) *pkgauth.TokenManager {
	t.Helper()

	manager, err := pkgauth.NewTokenManager(config.JWTConfig{
		Secret:            "middleware-test-secret",
		Issuer:            "ecofinds-test",
		ExpirationMinutes: 5,
	})
	require.NoError(t, err)
	return manager
}

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()

	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func TestAuthSeedsUserIDFromBearerToken(t *testing.T) {
	manager := newTestTokenManager(t)
	userID := uuid.New()

	token, _, err := manager.MintAccessToken(userID)
	require.NoError(t, err)

	var seen uuid.UUID
	handler := Auth(manager, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, userID, seen)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	manager := newTestTokenManager(t)

	handler := Auth(manager, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeErrorEnvelope(t, rec)
	require.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	manager := newTestTokenManager(t)

	handler := Auth(manager, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeErrorEnvelope(t, rec)
	require.Equal(t, "UNAUTHORIZED", envelope.Error.Code)
}

func TestAuthRejectsTokenSignedWithOtherSecret(t *testing.T) {
	manager := newTestTokenManager(t)

	rogue, err := pkgauth.NewTokenManager(config.JWTConfig{
		Secret:            "some-other-secret",
		Issuer:            "ecofinds-test",
		ExpirationMinutes: 5,
	})
	require.NoError(t, err)

	token, _, err := rogue.MintAccessToken(uuid.New())
	require.NoError(t, err)

	handler := Auth(manager, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run with a foreign token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
