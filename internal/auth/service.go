package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/internal/users"
	"github.com/ecofinds/ecofinds-backend/pkg/config"
	"github.com/ecofinds/ecofinds-backend/pkg/db"
	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
	"github.com/ecofinds/ecofinds-backend/pkg/security"
)

// Service exposes account registration and credential exchange.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResultDTO, error)
	Login(ctx context.Context, input LoginInput) (*AuthResultDTO, error)
}

// RegisterInput holds the validated payload to create an account.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName *string
	LastName  *string
}

// LoginInput holds the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

type tokenMinter interface {
	MintAccessToken(userID uuid.UUID) (string, time.Time, error)
}

type service struct {
	repo        userStore
	tokens      tokenMinter
	passwordCfg config.PasswordConfig
}

// NewService constructs an auth service instance.
func NewService(repo userStore, tokens tokenMinter, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token minter required")
	}
	return &service{
		repo:        repo,
		tokens:      tokens,
		passwordCfg: passwordCfg,
	}, nil
}

// Register creates the account and returns a fresh access token.
func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResultDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if username == "" {
		username = email
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, "uq_users_email"):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		case db.IsUniqueViolation(err, "uq_users_username"):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
		}
	}

	return s.issueToken(created)
}

// Login verifies the credentials and returns a fresh access token. Unknown
// emails and bad passwords are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResultDTO, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	return s.issueToken(user)
}

func (s *service) issueToken(user *models.User) (*AuthResultDTO, error) {
	token, expiresAt, err := s.tokens.MintAccessToken(user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	return &AuthResultDTO{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        users.ToUserDTO(user),
	}, nil
}
