package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/internal/cart"
	"github.com/ecofinds/ecofinds-backend/internal/catalog"
	"github.com/ecofinds/ecofinds-backend/internal/purchases"
	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	"github.com/ecofinds/ecofinds-backend/pkg/enums"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, buyerID uuid.UUID) (*purchases.PurchaseDTO, error)
}

type service struct {
	tx           txRunner
	cartRepo     cart.CartRepository
	productRepo  catalog.ProductRepository
	purchaseRepo purchases.PurchaseRepository
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	purchaseRepo purchases.PurchaseRepository,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if purchaseRepo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	return &service{
		tx:           tx,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
	}, nil
}

// Execute converts the buyer's cart into an immutable purchase. The whole
// conversion runs in one transaction: every product is re-read under a row
// lock, re-priced, marked sold, and the cart is drained. Any failed line
// aborts the entire checkout.
func (s *service) Execute(ctx context.Context, buyerID uuid.UUID) (*purchases.PurchaseDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}

	var result *models.Purchase
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		purchaseRepo := s.purchaseRepo.WithTx(tx)

		items, err := cartRepo.ListByUser(ctx, buyerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		productIDs := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}

		locked, err := productRepo.FindByIDsForUpdate(ctx, productIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock products")
		}
		productsByID := make(map[uuid.UUID]*models.Product, len(locked))
		for i := range locked {
			productsByID[locked[i].ID] = &locked[i]
		}

		total := decimal.Zero
		purchaseItems := make([]models.PurchaseItem, 0, len(items))
		for _, item := range items {
			product, ok := productsByID[item.ProductID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "a cart item no longer exists").
					WithDetails(map[string]any{"product_id": item.ProductID})
			}
			if !product.IsAvailable {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "a cart item is no longer available").
					WithDetails(map[string]any{
						"product_id": product.ID,
						"title":      product.Title,
					})
			}

			lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(lineTotal)
			purchaseItems = append(purchaseItems, models.PurchaseItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				PriceAtPurchase: product.Price,
			})
		}

		purchase := &models.Purchase{
			BuyerID:     buyerID,
			TotalAmount: total,
			Status:      enums.PurchaseStatusCompleted,
			Items:       purchaseItems,
		}
		created, err := purchaseRepo.Create(ctx, purchase)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert purchase")
		}

		if err := productRepo.MarkUnavailable(ctx, productIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark products sold")
		}
		if err := cartRepo.DeleteByUser(ctx, buyerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: drain cart")
		}

		// attach snapshots so the response carries titles without a reload
		for i := range created.Items {
			created.Items[i].Product = productsByID[created.Items[i].ProductID]
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return purchases.ToPurchaseDTO(result), nil
}
