package services

import (
	"testing"

	"contauno/internal/ledger"
	"contauno/internal/models"
	"contauno/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, models.CategoryTypeExpense, "  Fuel ")
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected category ID")
		}
		if cat.Name != "Fuel" {
			t.Errorf("expected trimmed name Fuel, got %q", cat.Name)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, models.CategoryTypeExpense, "Fuel")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(user.ID, models.CategoryTypeExpense, "Fuel")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same_name_other_type_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, models.CategoryTypeExpense, "Other")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(user.ID, models.CategoryTypeIncome, "Other")
		testutil.AssertNoError(t, err)
	})

	t.Run("reserved_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, models.CategoryTypeIncome, ledger.CategoryInventorySale)
		testutil.AssertAppError(t, err, "RESERVED_CATEGORY")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, models.CategoryTypeExpense, " ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("bad_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(user.ID, "transfer", "Moves")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	userSvc := NewUserService(db)
	svc := NewCategoryService(db)

	user, err := userSvc.CreateUser("cats@example.com", "password123", "", "")
	testutil.AssertNoError(t, err)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeIncome)

	income, err := svc.GetUserCategories(user.ID, models.CategoryTypeIncome)
	testutil.AssertNoError(t, err)
	names := make([]string, len(income))
	for i, c := range income {
		names[i] = c.Name
	}
	if len(names) != 3 || names[0] != "Sales" || names[1] != "Services" || names[2] != "Other Income" {
		t.Errorf("unexpected income defaults %v", names)
	}
}

func TestRenameCategory(t *testing.T) {
	t.Run("cascades_to_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, models.CategoryTypeExpense, "Supplies")
		testutil.AssertNoError(t, err)
		tx := testutil.CreateTestTransaction(t, db, user.ID, ledger.Expense, "2025-06-01", "30")

		renamed, err := svc.RenameCategory(user.ID, cat.ID, "Office Supplies")
		testutil.AssertNoError(t, err)
		if renamed.Name != "Office Supplies" {
			t.Errorf("expected new name, got %s", renamed.Name)
		}

		var stored models.Transaction
		db.First(&stored, "id = ?", tx.ID)
		if stored.Category != "Office Supplies" {
			t.Errorf("expected transaction relabelled, got %s", stored.Category)
		}
	})

	t.Run("income_transactions_untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, models.CategoryTypeExpense, "Sales")
		testutil.AssertNoError(t, err)
		income := testutil.CreateTestTransaction(t, db, user.ID, ledger.Income, "2025-06-01", "30")

		_, err = svc.RenameCategory(user.ID, cat.ID, "Refunds")
		testutil.AssertNoError(t, err)

		var stored models.Transaction
		db.First(&stored, "id = ?", income.ID)
		if stored.Category != "Sales" {
			t.Errorf("expected income category kept, got %s", stored.Category)
		}
	})

	t.Run("to_reserved_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

		_, err := svc.RenameCategory(user.ID, cat.ID, ledger.CategoryInventoryPurchase)
		testutil.AssertAppError(t, err, "RESERVED_CATEGORY")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, other.ID, models.CategoryTypeExpense)

		_, err := svc.RenameCategory(user.ID, cat.ID, "Mine")
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("in_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, models.CategoryTypeIncome, "Sales")
		testutil.AssertNoError(t, err)
		testutil.CreateTestTransaction(t, db, user.ID, ledger.Income, "2025-06-01", "10")

		err = svc.DeleteCategory(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("unused_can_be_recreated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(user.ID, models.CategoryTypeExpense, "Travel")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteCategory(user.ID, cat.ID))

		_, err = svc.GetCategoryByID(user.ID, cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		_, err = svc.CreateCategory(user.ID, models.CategoryTypeExpense, "Travel")
		testutil.AssertNoError(t, err)
	})
}
