package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecofinds/ecofinds-backend/pkg/db/models"
)

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
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

func mustCreateTestCategory(t *testing.T, tx *gorm.DB) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Test Category %s", uuid.NewString()),
	}
	if err := tx.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, sellerID, categoryID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Title:       "Test Product",
		Description: "A test listing",
		Price:       decimal.RequireFromString("25.00"),
		CategoryID:  categoryID,
		SellerID:    sellerID,
		IsAvailable: true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
