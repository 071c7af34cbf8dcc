package purchases

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	"github.com/ecofinds/ecofinds-backend/pkg/enums"
)

// PurchaseItemDTO is one immutable line of a purchase. Title and price are
// snapshots taken at checkout; later listing edits do not touch them.
type PurchaseItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Title           string          `json:"title"`
	ImageURL        *string         `json:"image_url,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// PurchaseDTO is the public shape of a completed purchase.
type PurchaseDTO struct {
	ID          uuid.UUID            `json:"id"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Status      enums.PurchaseStatus `json:"status"`
	Items       []PurchaseItemDTO    `json:"items"`
	CreatedAt   time.Time            `json:"created_at"`
}

// PurchaseListResult is one page of purchase history.
type PurchaseListResult struct {
	Items []PurchaseDTO `json:"items"`
	Total int64         `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

// ToPurchaseDTO maps the persistence model to its public shape.
func ToPurchaseDTO(purchase *models.Purchase) *PurchaseDTO {
	if purchase == nil {
		return nil
	}
	dto := &PurchaseDTO{
		ID:          purchase.ID,
		TotalAmount: purchase.TotalAmount,
		Status:      purchase.Status,
		Items:       make([]PurchaseItemDTO, 0, len(purchase.Items)),
		CreatedAt:   purchase.CreatedAt,
	}
	for i := range purchase.Items {
		item := &purchase.Items[i]
		line := PurchaseItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			LineTotal:       item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.Product != nil {
			line.Title = item.Product.Title
			line.ImageURL = item.Product.ImageURL
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
