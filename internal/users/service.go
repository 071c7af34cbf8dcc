package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db"
	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
)

// Service exposes profile operations for the authenticated user.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
}

// UpdateProfileInput holds optional mutation values for a profile. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	Username  *string
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

type service struct {
	repo userReader
}

// NewService constructs a user profile service instance.
func NewService(repo userReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

// GetProfile returns the profile for the authenticated user.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}
	return ToUserDTO(user), nil
}

// UpdateProfile applies the provided fields and returns the updated profile.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load user")
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "username cannot be empty")
		}
		user.Username = username
	}
	if input.FirstName != nil {
		user.FirstName = trimmedOrNil(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = trimmedOrNil(*input.LastName)
	}
	if input.Phone != nil {
		user.Phone = trimmedOrNil(*input.Phone)
	}
	if input.Address != nil {
		user.Address = trimmedOrNil(*input.Address)
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_users_username") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update user")
	}
	return ToUserDTO(updated), nil
}

func trimmedOrNil(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
