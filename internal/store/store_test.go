package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contauno/internal/ledger"
	"contauno/internal/models"
	"contauno/internal/testutil"
)

func standard(day time.Time, typ ledger.Type, amount int64) ledger.Transaction {
	return ledger.Transaction{
		ID:   ledger.NewTransactionID(),
		Date: day,
		Type: typ,
		Body: ledger.Standard{Category: "Sales", Description: "counter", Amount: decimal.NewFromInt(amount)},
	}
}

func TestStore_WriteAndReadTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	product := testutil.CreateTestProduct(t, db, user.ID, 10, "4")
	s := New(db, user.ID)

	june1 := ledger.Date(2025, time.June, 1)
	june2 := ledger.Date(2025, time.June, 2)
	a := standard(june1, ledger.Income, 100)
	b := ledger.Transaction{
		ID:   ledger.NewTransactionID(),
		Date: june1,
		Type: ledger.Expense,
		Body: ledger.Inventory{Items: []ledger.Item{
			{ProductID: product.ID, ProductName: product.Name, Quantity: 2, UnitPrice: decimal.RequireFromString("3.5")},
		}},
	}
	c := standard(june2, ledger.Expense, 40)

	require.NoError(t, s.WriteTransactions(ledger.GroupByDay([]ledger.Transaction{a, b, c})))

	got, err := s.ReadTransactions(ledger.AllDates)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})

	inv := got[1]
	require.True(t, inv.IsInventory())
	assert.Equal(t, ledger.CategoryInventoryPurchase, inv.Category())
	require.Len(t, inv.Items(), 1)
	assert.Equal(t, int64(2), inv.Items()[0].Quantity)
	assert.True(t, inv.Amount().Equal(decimal.NewFromInt(7)))
	assert.Equal(t, time.UTC, inv.Date.Location())

	day, err := s.ReadDay(june2)
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, c.ID, day[0].ID)
}

func TestStore_WriteReplacesBucket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	s := New(db, user.ID)
	june1 := ledger.Date(2025, time.June, 1)

	a := standard(june1, ledger.Income, 100)
	b := standard(june1, ledger.Income, 50)
	require.NoError(t, s.WriteTransactions(ledger.GroupByDay([]ledger.Transaction{a, b})))

	// Rewriting the day with b first reorders it and drops a.
	require.NoError(t, s.WriteTransactions(map[string][]ledger.Transaction{"2025-06-01": {b}}))
	got, err := s.ReadDay(june1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	// An empty bucket clears the day.
	require.NoError(t, s.WriteTransactions(map[string][]ledger.Transaction{"2025-06-01": {}}))
	got, err = s.ReadDay(june1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_WriteMovesTransactionToEarlierDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	s := New(db, user.ID)
	june1 := ledger.Date(2025, time.June, 1)
	june5 := ledger.Date(2025, time.June, 5)

	tx := standard(june5, ledger.Income, 40)
	require.NoError(t, s.WriteTransactions(ledger.GroupByDay([]ledger.Transaction{tx})))

	moved := tx
	moved.Date = june1
	require.NoError(t, s.WriteTransactions(map[string][]ledger.Transaction{
		"2025-06-01": {moved},
		"2025-06-05": {},
	}))

	got, err := s.ReadDay(june1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tx.ID, got[0].ID)

	old, err := s.ReadDay(june5)
	require.NoError(t, err)
	assert.Empty(t, old)

	found, err := s.FindTransaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", found.DateKey())
}

func TestStore_WriteRejectsMisfiledTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	s := New(db, user.ID)

	tx := standard(ledger.Date(2025, time.June, 2), ledger.Income, 1)
	err := s.WriteTransactions(map[string][]ledger.Transaction{"2025-06-01": {tx}})
	testutil.AssertAppError(t, err, "INTERNAL_ERROR")
}

func TestStore_UsersAreIsolated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	alice := testutil.CreateTestUser(t, db)
	bob := testutil.CreateTestUser(t, db)
	june1 := ledger.Date(2025, time.June, 1)

	require.NoError(t, New(db, alice.ID).WriteTransactions(ledger.GroupByDay([]ledger.Transaction{standard(june1, ledger.Income, 1)})))
	require.NoError(t, New(db, bob.ID).WriteTransactions(ledger.GroupByDay([]ledger.Transaction{standard(june1, ledger.Income, 2)})))

	got, err := New(db, alice.ID).ReadTransactions(ledger.AllDates)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount().Equal(decimal.NewFromInt(1)))
}

func TestStore_ReadRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestTransaction(t, db, user.ID, ledger.Income, "2025-05-31", "1")
	testutil.CreateTestTransaction(t, db, user.ID, ledger.Income, "2025-06-01", "2")
	testutil.CreateTestTransaction(t, db, user.ID, ledger.Income, "2025-06-30", "3")
	testutil.CreateTestTransaction(t, db, user.ID, ledger.Income, "2025-07-01", "4")

	got, err := New(db, user.ID).ReadTransactions(ledger.MonthRange(time.June, 2025))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-06-01", got[0].DateKey())
	assert.Equal(t, "2025-06-30", got[1].DateKey())
}

func TestStore_FindTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	row := testutil.CreateTestTransaction(t, db, user.ID, ledger.Expense, "2025-06-01", "12.5")

	got, err := New(db, user.ID).FindTransaction(row.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.Expense, got.Type)
	assert.True(t, got.Amount().Equal(decimal.RequireFromString("12.5")))

	_, err = New(db, other.ID).FindTransaction(row.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestStore_Products(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	existing := testutil.CreateTestProduct(t, db, user.ID, 5, "10")
	s := New(db, user.ID)

	products, err := s.ReadProducts()
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	p.Stock = 0
	p.WeightedAverageCost = decimal.RequireFromString("8.25")
	fresh := ledger.Product{ID: "0190f000-0000-7000-8000-000000000001", Name: "Added", Stock: 3}
	require.NoError(t, s.WriteProducts([]ledger.Product{p, fresh}))

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", existing.ID).Error)
	assert.Equal(t, int64(0), stored.Stock)
	assert.True(t, stored.WeightedAverageCost.Equal(decimal.RequireFromString("8.25")))
	assert.Equal(t, existing.Name, stored.Name)

	products, err = s.ReadProducts()
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
