package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/ecofinds-backend/internal/catalog"
	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
)

// CartItemDTO is one row of the cart with its current listing snapshot.
type CartItemDTO struct {
	ID        uuid.UUID           `json:"id"`
	ProductID uuid.UUID           `json:"product_id"`
	Product   *catalog.ProductDTO `json:"product,omitempty"`
	Quantity  int                 `json:"quantity"`
	LineTotal decimal.Decimal     `json:"line_total"`
	AddedAt   time.Time           `json:"added_at"`
}

// CartDTO is the full cart view returned by the API.
type CartDTO struct {
	Items     []CartItemDTO   `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// ToCartItemDTO maps a cart row. The line total is priced off the listing's
// current price; checkout re-prices under lock.
func ToCartItemDTO(item *models.CartItem) *CartItemDTO {
	if item == nil {
		return nil
	}
	dto := &CartItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Product:   catalog.ToProductDTO(item.Product),
		Quantity:  item.Quantity,
		LineTotal: decimal.Zero,
		AddedAt:   item.CreatedAt,
	}
	if item.Product != nil {
		dto.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return dto
}

// BuildCartDTO assembles the cart view with its running total.
func BuildCartDTO(items []models.CartItem) *CartDTO {
	dto := &CartDTO{
		Items: make([]CartItemDTO, 0, len(items)),
		Total: decimal.Zero,
	}
	for i := range items {
		item := ToCartItemDTO(&items[i])
		dto.Items = append(dto.Items, *item)
		dto.ItemCount += item.Quantity
		dto.Total = dto.Total.Add(item.LineTotal)
	}
	return dto
}
