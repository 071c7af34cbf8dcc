package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecofinds/ecofinds-backend/pkg/enums"
)

// Purchase is the immutable record produced by checkout. TotalAmount is
// computed once at creation and never recomputed.
type Purchase struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID     uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null"`
	TotalAmount decimal.Decimal      `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status      enums.PurchaseStatus `gorm:"column:status;not null;default:'completed'"`
	Items       []PurchaseItem       `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
