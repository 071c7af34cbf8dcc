package auth

import (
	"time"

	"github.com/ecofinds/ecofinds-backend/internal/users"
)

// AuthResultDTO is returned by register and login.
type AuthResultDTO struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        *users.UserDTO `json:"user"`
}
