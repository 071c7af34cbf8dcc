package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ecofinds/ecofinds-backend/pkg/db"
	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
)

// CategoryService exposes category management. Categories are shared across
// all sellers, so any authenticated user may add one.
type CategoryService interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

type categoryStore interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type categoryService struct {
	repo categoryStore
}

// NewCategoryService constructs a category service instance.
func NewCategoryService(repo categoryStore) (CategoryService, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &categoryService{repo: repo}, nil
}

// CreateCategory creates a category with a globally unique name.
func (s *categoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	category := &models.Category{
		Name:        name,
		Description: input.Description,
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_categories_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return ToCategoryDTO(created), nil
}

// ListCategories returns every category ordered by name.
func (s *categoryService) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dtos = append(dtos, *ToCategoryDTO(&categories[i]))
	}
	return dtos, nil
}
