package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
)

// CategoryDTO is the public shape of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// SellerSummaryDTO exposes the minimal seller data shown on listings.
type SellerSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ProductDTO is the public shape of a listing.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	ImageURL    *string           `json:"image_url,omitempty"`
	CategoryID  uuid.UUID         `json:"category_id"`
	Category    *CategoryDTO      `json:"category,omitempty"`
	SellerID    uuid.UUID         `json:"seller_id"`
	Seller      *SellerSummaryDTO `json:"seller,omitempty"`
	IsAvailable bool              `json:"is_available"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListResult is one page of the browse feed.
type ProductListResult struct {
	Items []ProductDTO `json:"items"`
	Total int64        `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

// ToCategoryDTO maps the persistence model to its public shape.
func ToCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

// ToProductDTO maps the persistence model to its public shape, including
// whichever associations were preloaded.
func ToProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          product.ID,
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price,
		ImageURL:    product.ImageURL,
		CategoryID:  product.CategoryID,
		Category:    ToCategoryDTO(product.Category),
		SellerID:    product.SellerID,
		IsAvailable: product.IsAvailable,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	if product.Seller != nil {
		dto.Seller = &SellerSummaryDTO{
			ID:       product.Seller.ID,
			Username: product.Seller.Username,
		}
	}
	return dto
}
