package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
)

// CartRepository is the persistence surface shared with checkout, which
// drains the cart inside its own transaction.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
