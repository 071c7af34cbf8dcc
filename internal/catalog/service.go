package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db"
	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
	"github.com/ecofinds/ecofinds-backend/pkg/pagination"
)

// Service exposes product listing management and the public browse feed.
type Service interface {
	CreateProduct(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	ListMyProducts(ctx context.Context, sellerID uuid.UUID, page pagination.Params) (*ProductListResult, error)
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	ImageURL    *string
	CategoryID  uuid.UUID
}

// UpdateProductInput holds optional mutation values for a listing. Nil fields
// are left untouched.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	ImageURL    *string
	CategoryID  *uuid.UUID
	IsAvailable *bool
}

type productStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Product, int64, error)
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	repo       productStore
	categories categoryLoader
}

// NewService constructs a catalog service instance.
func NewService(repo productStore, categories categoryLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, categories: categories}, nil
}

// CreateProduct creates a listing owned by the authenticated seller.
func (s *service) CreateProduct(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
		SellerID:    sellerID,
		IsAvailable: true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return ToProductDTO(created), nil
}

// UpdateProduct applies the provided fields. Only the seller may mutate a listing.
func (s *service) UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		product.Title = title
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return ToProductDTO(updated), nil
}

// DeleteProduct removes a listing. Only the seller may delete it.
func (s *service) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "listing has been sold and is part of purchase history")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// GetProduct returns the listing detail. Sold listings stay readable so
// purchase history links keep resolving.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindDetailByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return ToProductDTO(product), nil
}

// ListProducts returns one page of the public browse feed. Only available
// listings are shown.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	page := input.Pagination.Normalize()
	filters := input.Filters
	filters.IncludeUnavailable = false

	products, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return buildListResult(products, total, page), nil
}

// ListMyProducts returns the seller's own listings, sold ones included.
func (s *service) ListMyProducts(ctx context.Context, sellerID uuid.UUID, page pagination.Params) (*ProductListResult, error) {
	page = page.Normalize()
	filters := ListFilters{
		SellerID:           &sellerID,
		IncludeUnavailable: true,
	}

	products, total, err := s.repo.List(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list seller products")
	}
	return buildListResult(products, total, page), nil
}

func (s *service) loadOwned(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product.SellerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the seller may modify this listing")
	}
	return product, nil
}

func (s *service) ensureCategoryExists(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return nil
}

func buildListResult(products []models.Product, total int64, page pagination.Params) *ProductListResult {
	items := make([]ProductDTO, 0, len(products))
	for i := range products {
		items = append(items, *ToProductDTO(&products[i]))
	}
	return &ProductListResult{
		Items: items,
		Total: total,
		Skip:  page.Skip,
		Limit: page.Limit,
	}
}
