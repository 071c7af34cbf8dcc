package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseItem snapshots one cart line at transaction time.
// PriceAtPurchase is historical fact, decoupled from the product's
// current price.
type PurchaseItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PurchaseID      uuid.UUID       `gorm:"column:purchase_id;type:uuid;not null"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity        int             `gorm:"column:quantity;not null;default:1"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(10,2);not null"`
	Product         *Product        `gorm:"foreignKey:ProductID"`
}
