package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a single-unit secondhand listing. Once sold,
// IsAvailable flips to false and stays false until the seller relists.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string          `gorm:"column:title;not null"`
	Description string          `gorm:"column:description;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL    *string         `gorm:"column:image_url"`
	CategoryID  uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	SellerID    uuid.UUID       `gorm:"column:seller_id;type:uuid;not null"`
	IsAvailable bool            `gorm:"column:is_available;not null;default:true"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	Seller      *User           `gorm:"foreignKey:SellerID"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
