package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	"github.com/ecofinds/ecofinds-backend/pkg/pagination"
)

// ProductRepository is the persistence surface for listings. Checkout uses
// the locking reads to sell products inside its own transaction.
type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkUnavailable(ctx context.Context, ids []uuid.UUID) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.Product, int64, error)
}
