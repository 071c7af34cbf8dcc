package checkout

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/internal/cart"
	"github.com/ecofinds/ecofinds-backend/internal/catalog"
	"github.com/ecofinds/ecofinds-backend/internal/purchases"
	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
	pkgerrors "github.com/ecofinds/ecofinds-backend/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("ECOFINDS_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("ECOFINDS_TEST_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

// gormTxRunner runs checkout transactions as savepoints inside the test's
// outer transaction, so everything rolls back on cleanup.
type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func seedUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("ef_test_%s@example.com", uuid.NewString()),
		Username:     fmt.Sprintf("ef_test_%s", uuid.NewString()),
		PasswordHash: "hash",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func seedListing(t *testing.T, tx *gorm.DB, sellerID uuid.UUID, price string) *models.Product {
	t.Helper()
	category := &models.Category{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Test Category %s", uuid.NewString()),
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	product := &models.Product{
		ID:          uuid.New(),
		Title:       "Checkout Test Listing",
		Description: "A listing under test",
		Price:       decimal.RequireFromString(price),
		CategoryID:  category.ID,
		SellerID:    sellerID,
		IsAvailable: true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestExecuteAgainstDatabase(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	seller := seedUser(t, tx)
	buyer := seedUser(t, tx)
	product := seedListing(t, tx, seller.ID, "100.50")

	cartItem := &models.CartItem{
		ID:        uuid.New(),
		UserID:    buyer.ID,
		ProductID: product.ID,
		Quantity:  2,
	}
	if err := tx.Create(cartItem).Error; err != nil {
		t.Fatalf("create cart item: %v", err)
	}

	svc, err := NewService(
		gormTxRunner{db: tx},
		cart.NewRepository(tx),
		catalog.NewRepository(tx),
		purchases.NewRepository(tx),
	)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	dto, err := svc.Execute(ctx, buyer.ID)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if want := decimal.RequireFromString("201.00"); !dto.TotalAmount.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, dto.TotalAmount)
	}

	var reloaded models.Product
	if err := tx.First(&reloaded, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.IsAvailable {
		t.Fatal("expected product to be sold")
	}

	var cartCount int64
	if err := tx.Model(&models.CartItem{}).Where("user_id = ?", buyer.ID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("expected drained cart, got %d rows", cartCount)
	}

	// the cart is empty now, a second checkout has nothing to buy
	_, err = svc.Execute(ctx, buyer.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT, got %v", err)
	}

	// a second buyer racing for the sold product fails at checkout
	rival := seedUser(t, tx)
	rivalItem := &models.CartItem{
		ID:        uuid.New(),
		UserID:    rival.ID,
		ProductID: product.ID,
		Quantity:  1,
	}
	if err := tx.Create(rivalItem).Error; err != nil {
		t.Fatalf("create rival cart item: %v", err)
	}
	_, err = svc.Execute(ctx, rival.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected STATE_CONFLICT for sold product, got %v", err)
	}

	var purchaseCount int64
	if err := tx.Model(&models.Purchase{}).Where("buyer_id = ?", rival.ID).Count(&purchaseCount).Error; err != nil {
		t.Fatalf("count purchases: %v", err)
	}
	if purchaseCount != 0 {
		t.Fatal("failed checkout must not leave a purchase behind")
	}
}
