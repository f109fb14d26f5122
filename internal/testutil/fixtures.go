package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"contauno/internal/ledger"
	"contauno/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestProduct creates a product with the given stock and weighted
// average cost.
func CreateTestProduct(t *testing.T, db *gorm.DB, userID string, stock int64, cost string) *models.Product {
	t.Helper()

	n := nextID()
	product := &models.Product{
		UserID:              userID,
		Name:                fmt.Sprintf("Test Product %d", n),
		SKU:                 fmt.Sprintf("SKU-%d", n),
		Price:               decimal.RequireFromString(cost).Mul(decimal.NewFromInt(2)),
		Stock:               stock,
		WeightedAverageCost: decimal.RequireFromString(cost),
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestTransaction stores a standard transaction at the end of its day.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, txType ledger.Type, date, amount string) *models.Transaction {
	t.Helper()

	var pos int64
	if err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND date_key = ?", userID, date).
		Count(&pos).Error; err != nil {
		t.Fatalf("failed to count day bucket: %v", err)
	}

	category := "Sales"
	if txType == ledger.Expense {
		category = "Supplies"
	}
	tx := &models.Transaction{
		ID:          ledger.NewTransactionID(),
		UserID:      userID,
		DateKey:     date,
		Position:    int(pos),
		Type:        string(txType),
		Kind:        models.TransactionKindStandard,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: fmt.Sprintf("Test transaction %d", nextID()),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestTemplate creates a template for a standard income transaction.
func CreateTestTemplate(t *testing.T, db *gorm.DB, userID string) *models.Template {
	t.Helper()

	tpl := &models.Template{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Template %d", nextID()),
		Type:        string(ledger.Income),
		Amount:      decimal.NewFromInt(100),
		Category:    "Services",
		Description: "Consulting",
	}
	if err := db.Create(tpl).Error; err != nil {
		t.Fatalf("failed to create test template: %v", err)
	}
	return tpl
}
