package testutil_test

import (
	"testing"

	"contauno/internal/errors"
	"contauno/internal/ledger"
	"contauno/internal/models"
	"contauno/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "categories", "products", "transactions", "transaction_items", "templates", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	if category.Type != models.CategoryTypeExpense {
		t.Errorf("expected expense category, got %s", category.Type)
	}

	product := testutil.CreateTestProduct(t, db, user.ID, 5, "2.5")
	if product.Stock != 5 || product.WeightedAverageCost.String() != "2.5" {
		t.Errorf("unexpected product %d @ %s", product.Stock, product.WeightedAverageCost)
	}

	first := testutil.CreateTestTransaction(t, db, user.ID, ledger.Income, "2025-06-01", "100")
	second := testutil.CreateTestTransaction(t, db, user.ID, ledger.Expense, "2025-06-01", "40")
	if first.Position != 0 || second.Position != 1 {
		t.Errorf("expected positions 0 and 1, got %d and %d", first.Position, second.Position)
	}
	if second.ID <= first.ID {
		t.Errorf("expected increasing ids, got %d then %d", first.ID, second.ID)
	}

	tpl := testutil.CreateTestTemplate(t, db, user.ID)
	if tpl.Type != "income" {
		t.Errorf("expected income template, got %s", tpl.Type)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrProductNotFound, "custom message")
	testutil.AssertAppError(t, err, "PRODUCT_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
