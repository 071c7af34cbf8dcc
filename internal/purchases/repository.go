package purchases

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	"github.com/ecofinds/ecofinds-backend/pkg/pagination"
)

// PurchaseRepository exposes persistence operations for purchase records.
type PurchaseRepository interface {
	WithTx(tx *gorm.DB) PurchaseRepository
	Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)
	FindByIDForBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Purchase, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, page pagination.Params) ([]models.Purchase, int64, error)
}

// Repository is the GORM-backed PurchaseRepository.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) PurchaseRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the purchase together with its items.
func (r *Repository) Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		return nil, err
	}
	return purchase, nil
}

// FindByIDForBuyer loads a purchase with its items, scoped to the buyer.
// Other users' purchases are indistinguishable from missing ones.
func (r *Repository) FindByIDForBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&purchase, "id = ? AND buyer_id = ?", id, buyerID).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

// ListByBuyer returns one page of the buyer's purchases, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, page pagination.Params) ([]models.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Purchase{}).Where("buyer_id = ?", buyerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []models.Purchase
	if err := query.
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}
