package purchases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
	"github.com/ecofinds/ecofinds-backend/pkg/pagination"
)

// Service exposes the buyer's purchase history. Purchases are immutable, so
// the surface is read-only.
type Service interface {
	ListPurchases(ctx context.Context, buyerID uuid.UUID, page pagination.Params) (*PurchaseListResult, error)
	GetPurchase(ctx context.Context, buyerID, purchaseID uuid.UUID) (*PurchaseDTO, error)
}

type service struct {
	repo PurchaseRepository
}

// NewService constructs a purchase history service instance.
func NewService(repo PurchaseRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	return &service{repo: repo}, nil
}

// ListPurchases returns one page of the buyer's history, newest first.
func (s *service) ListPurchases(ctx context.Context, buyerID uuid.UUID, page pagination.Params) (*PurchaseListResult, error) {
	page = page.Normalize()

	purchases, total, err := s.repo.ListByBuyer(ctx, buyerID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list purchases")
	}

	result := &PurchaseListResult{
		Items: make([]PurchaseDTO, 0, len(purchases)),
		Total: total,
		Skip:  page.Skip,
		Limit: page.Limit,
	}
	for i := range purchases {
		result.Items = append(result.Items, *ToPurchaseDTO(&purchases[i]))
	}
	return result, nil
}

// GetPurchase returns one purchase. Requests for another buyer's purchase
// report not found rather than forbidden.
func (s *service) GetPurchase(ctx context.Context, buyerID, purchaseID uuid.UUID) (*PurchaseDTO, error) {
	purchase, err := s.repo.FindByIDForBuyer(ctx, purchaseID, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load purchase")
	}
	return ToPurchaseDTO(purchase), nil
}
