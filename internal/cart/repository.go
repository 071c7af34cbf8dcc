package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
)

// Repository exposes persistence operations for cart rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListByUser returns the user's cart rows with product snapshots, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByUserAndProduct loads the cart row for a (user, product) pair.
func (r *Repository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).
		First(&item, "user_id = ? AND product_id = ?", userID, productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDForUser loads a cart row by primary key, scoped to its owner.
func (r *Repository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).
		First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new cart row.
func (r *Repository) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity sets the quantity on an existing cart row.
func (r *Repository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

// Delete removes a cart row by primary key.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CartItem{}).Error
}

// DeleteByUser removes every cart row owned by the user.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
