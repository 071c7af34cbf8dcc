package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ecofinds/ecofinds-backend/pkg/config"
	apperrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "ecofinds-test",
		ExpirationMinutes: 15,
	}
}

func TestNewTokenManager_Validation(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.JWTConfig
	}{
		{"missing secret", config.JWTConfig{Issuer: "x", ExpirationMinutes: 5}},
		{"missing issuer", config.JWTConfig{Secret: "x", ExpirationMinutes: 5}},
		{"zero expiration", config.JWTConfig{Secret: "x", Issuer: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewTokenManager(tc.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	manager, err := NewTokenManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	userID := uuid.New()
	raw, expiresAt, err := manager.MintAccessToken(userID)
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}
	if raw == "" {
		t.Fatal("expected non-empty token")
	}
	if remaining := time.Until(expiresAt); remaining < 14*time.Minute || remaining > 15*time.Minute {
		t.Fatalf("unexpected expiry window: %v", remaining)
	}

	claims, err := manager.ParseAccessToken(raw)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Issuer != "ecofinds-test" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	minter, err := NewTokenManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	raw, _, err := minter.MintAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	other := testJWTConfig()
	other.Secret = "a-different-secret"
	parser, err := NewTokenManager(other)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	_, err = parser.ParseAccessToken(raw)
	if err == nil {
		t.Fatal("expected error for wrong secret")
	}
	if typed := apperrors.As(err); typed == nil || typed.Code() != apperrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestParseAccessToken_WrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"
	minter, err := NewTokenManager(cfg)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	raw, _, err := minter.MintAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	parser, err := NewTokenManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	if _, err := parser.ParseAccessToken(raw); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestParseAccessToken_Garbage(t *testing.T) {
	manager, err := NewTokenManager(testJWTConfig())
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	if _, err := manager.ParseAccessToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
