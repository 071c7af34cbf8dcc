package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
)

type stubCartStore struct {
	items   map[uuid.UUID]*models.CartItem // keyed by product id
	userID  uuid.UUID
	cleared bool
}

func newStubCartStore(userID uuid.UUID) *stubCartStore {
	return &stubCartStore{
		items:  map[uuid.UUID]*models.CartItem{},
		userID: userID,
	}
}

func (s *stubCartStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubCartStore) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	item, ok := s.items[productID]
	if !ok || item.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubCartStore) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.ID == id && item.UserID == userID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartStore) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	item.ID = uuid.New()
	s.items[item.ProductID] = item
	return item, nil
}

func (s *stubCartStore) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	for _, item := range s.items {
		if item.ID == id {
			item.Quantity = quantity
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartStore) Delete(ctx context.Context, id uuid.UUID) error {
	for productID, item := range s.items {
		if item.ID == id {
			delete(s.items, productID)
			return nil
		}
	}
	return nil
}

func (s *stubCartStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	for productID, item := range s.items {
		if item.UserID == userID {
			delete(s.items, productID)
		}
	}
	return nil
}

type stubProductLoader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func testProduct(sellerID uuid.UUID, price string, available bool) *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		Title:       "Listing",
		Price:       decimal.RequireFromString(price),
		SellerID:    sellerID,
		IsAvailable: available,
	}
}

func newTestService(t *testing.T, store *stubCartStore, loader *stubProductLoader) Service {
	t.Helper()
	svc, err := NewService(store, loader)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestAddItem_MergesExistingRow(t *testing.T) {
	userID := uuid.New()
	product := testProduct(uuid.New(), "10.00", true)
	store := newStubCartStore(userID)
	svc := newTestService(t, store, &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	if _, err := svc.AddItem(context.Background(), userID, product.ID, 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 2); err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(store.items) != 1 {
		t.Fatalf("expected one merged row, got %d", len(store.items))
	}
	if got := store.items[product.ID].Quantity; got != 3 {
		t.Fatalf("expected merged quantity 3, got %d", got)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	userID := uuid.New()
	svc := newTestService(t, newStubCartStore(userID), &stubProductLoader{products: map[uuid.UUID]*models.Product{}})

	_, err := svc.AddItem(context.Background(), userID, uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestAddItem_UnavailableProduct(t *testing.T) {
	userID := uuid.New()
	product := testProduct(uuid.New(), "10.00", false)
	svc := newTestService(t, newStubCartStore(userID), &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	_, err := svc.AddItem(context.Background(), userID, product.ID, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestAddItem_OwnListingRejected(t *testing.T) {
	userID := uuid.New()
	product := testProduct(userID, "10.00", true)
	svc := newTestService(t, newStubCartStore(userID), &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	_, err := svc.AddItem(context.Background(), userID, product.ID, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}
}

func TestAddItem_ZeroQuantityRejected(t *testing.T) {
	userID := uuid.New()
	svc := newTestService(t, newStubCartStore(userID), &stubProductLoader{products: map[uuid.UUID]*models.Product{}})

	_, err := svc.AddItem(context.Background(), userID, uuid.New(), 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestUpdateItem_ZeroQuantityRemovesRow(t *testing.T) {
	userID := uuid.New()
	product := testProduct(uuid.New(), "10.00", true)
	store := newStubCartStore(userID)
	svc := newTestService(t, store, &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	if _, err := svc.AddItem(context.Background(), userID, product.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	dto, err := svc.UpdateItem(context.Background(), userID, store.items[product.ID].ID, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(dto.Items) != 0 {
		t.Fatalf("expected empty cart, got %d rows", len(dto.Items))
	}
}

func TestUpdateItem_MissingRow(t *testing.T) {
	userID := uuid.New()
	svc := newTestService(t, newStubCartStore(userID), &stubProductLoader{products: map[uuid.UUID]*models.Product{}})

	_, err := svc.UpdateItem(context.Background(), userID, uuid.New(), 3)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateItem_OtherUsersRowLooksMissing(t *testing.T) {
	owner := uuid.New()
	product := testProduct(uuid.New(), "10.00", true)
	store := newStubCartStore(owner)
	svc := newTestService(t, store, &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	if _, err := svc.AddItem(context.Background(), owner, product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := svc.UpdateItem(context.Background(), uuid.New(), store.items[product.ID].ID, 5)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for foreign row, got %v", err)
	}
	if got := store.items[product.ID].Quantity; got != 1 {
		t.Fatalf("expected owner's row untouched, got quantity %d", got)
	}
}

func TestRemoveItem(t *testing.T) {
	userID := uuid.New()
	product := testProduct(uuid.New(), "10.00", true)
	store := newStubCartStore(userID)
	svc := newTestService(t, store, &stubProductLoader{products: map[uuid.UUID]*models.Product{product.ID: product}})

	if _, err := svc.AddItem(context.Background(), userID, product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := store.items[product.ID].ID
	if _, err := svc.RemoveItem(context.Background(), userID, itemID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(store.items) != 0 {
		t.Fatal("expected row to be deleted")
	}

	_, err := svc.RemoveItem(context.Background(), userID, itemID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND on second remove, got %v", err)
	}
}

func TestBuildCartDTOTotals(t *testing.T) {
	product := testProduct(uuid.New(), "100.50", true)
	items := []models.CartItem{
		{ID: uuid.New(), ProductID: product.ID, Product: product, Quantity: 2},
	}

	dto := BuildCartDTO(items)
	if dto.ItemCount != 2 {
		t.Fatalf("expected item count 2, got %d", dto.ItemCount)
	}
	if want := decimal.RequireFromString("201.00"); !dto.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, dto.Total)
	}
}
