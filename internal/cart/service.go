package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
)

// Service exposes the authenticated user's cart operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     cartStore
	products productLoader
}

// NewService constructs a cart service instance.
func NewService(repo cartStore, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// GetCart returns the full cart view.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list cart")
	}
	return BuildCartDTO(items), nil
}

// AddItem puts the product in the cart. A second add of the same product
// merges into the existing row instead of creating a duplicate.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if !product.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is no longer available").
			WithDetails(map[string]any{"product_id": productID})
	}
	if product.SellerID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot add your own listing to the cart")
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
	switch {
	case err == nil:
		if err := s.repo.UpdateQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart quantity")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if _, err := s.repo.Create(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart item")
	}

	return s.GetCart(ctx, userID)
}

// UpdateItem sets the quantity on an existing cart row. A quantity of zero or
// below removes the row.
func (s *service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	existing, err := s.repo.FindByIDForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart item")
	}

	if quantity <= 0 {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart item")
		}
	} else if err := s.repo.UpdateQuantity(ctx, existing.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart quantity")
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes one cart row owned by the user.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	existing, err := s.repo.FindByIDForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart item")
	}

	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart item")
	}
	return s.GetCart(ctx, userID)
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart")
	}
	return nil
}
