package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "contauno/internal/errors"
)

func TestTransaction_Variants(t *testing.T) {
	std := Transaction{ID: 1, Date: Date(2025, time.June, 3), Type: Expense,
		Body: Standard{Category: "Rent", Description: "June rent", Amount: decimal.NewFromInt(700)}}
	assert.False(t, std.IsInventory())
	assert.Nil(t, std.Items())
	assert.Equal(t, "Rent", std.Category())
	assert.True(t, std.Signed().Equal(decimal.NewFromInt(-700)))

	inv := Transaction{ID: 2, Date: Date(2025, time.June, 3), Type: Income,
		Body: Inventory{Items: []Item{
			{ProductID: "a", ProductName: "Widget", Quantity: 3, UnitPrice: decimal.RequireFromString("2.5")},
			{ProductID: "b", ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		}}}
	assert.True(t, inv.IsInventory())
	assert.True(t, inv.Amount().Equal(decimal.RequireFromString("17.5")))
	assert.Equal(t, CategoryInventorySale, inv.Category())
	assert.Equal(t, "Inventory sale - 2 item(s)", inv.Description())

	inv.Type = Expense
	assert.Equal(t, CategoryInventoryPurchase, inv.Category())
}

func TestDates(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, "2024-02-29", FormatDate(d))
	assert.Equal(t, 29, DaysIn(time.February, 2024))
	assert.Equal(t, 28, DaysIn(time.February, 2025))

	m, y := PreviousMonth(time.January, 2025)
	assert.Equal(t, time.December, m)
	assert.Equal(t, 2024, y)

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)

	r := MonthRange(time.June, 2025)
	assert.True(t, r.Contains(Date(2025, time.June, 30)))
	assert.False(t, r.Contains(Date(2025, time.July, 1)))
	assert.True(t, AllDates.Contains(Date(1990, time.January, 1)))
}

func TestNewTransactionID_Increasing(t *testing.T) {
	prev := NewTransactionID()
	for i := 0; i < 100; i++ {
		next := NewTransactionID()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestValidate(t *testing.T) {
	day := Date(2025, time.June, 1)
	good := decimal.NewFromInt(10)

	tests := []struct {
		name string
		tx   Transaction
		code string
	}{
		{"bad type", Transaction{Date: day, Type: "gift", Body: Standard{Category: "x", Description: "d", Amount: good}}, "INVALID_TRANSACTION_TYPE"},
		{"missing date", Transaction{Type: Income, Body: Standard{Category: "x", Description: "d", Amount: good}}, "INVALID_INPUT"},
		{"zero amount", Transaction{Date: day, Type: Income, Body: Standard{Category: "x", Description: "d"}}, "INVALID_AMOUNT"},
		{"missing category", Transaction{Date: day, Type: Income, Body: Standard{Description: "d", Amount: good}}, "INVALID_INPUT"},
		{"reserved category", Transaction{Date: day, Type: Income, Body: Standard{Category: CategoryInventorySale, Description: "d", Amount: good}}, "RESERVED_CATEGORY"},
		{"missing description", Transaction{Date: day, Type: Income, Body: Standard{Category: "x", Amount: good}}, "INVALID_INPUT"},
		{"no body", Transaction{Date: day, Type: Income}, "INVALID_INPUT"},
		{"empty items", Transaction{Date: day, Type: Income, Body: Inventory{}}, "EMPTY_ITEMS"},
		{"zero quantity", Transaction{Date: day, Type: Income, Body: Inventory{Items: []Item{{ProductID: "p", UnitPrice: good}}}}, "INVALID_QUANTITY"},
		{"negative price", Transaction{Date: day, Type: Income, Body: Inventory{Items: []Item{{ProductID: "p", Quantity: 1, UnitPrice: good.Neg()}}}}, "INVALID_INPUT"},
		{"missing product", Transaction{Date: day, Type: Income, Body: Inventory{Items: []Item{{Quantity: 1, UnitPrice: good}}}}, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tx)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}

	ok := Transaction{Date: day, Type: Expense, Body: Inventory{Items: []Item{{ProductID: "p", Quantity: 1}}}}
	assert.NoError(t, Validate(ok))
}

func TestTransaction_MarshalJSON(t *testing.T) {
	inv := Transaction{ID: 7, Date: Date(2025, time.June, 3), Type: Expense,
		Body: Inventory{Items: []Item{{ProductID: "a", ProductName: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(4)}}}}
	b, err := json.Marshal(inv)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "2025-06-03", got["date"])
	assert.Equal(t, "8", got["amount"])
	assert.Equal(t, CategoryInventoryPurchase, got["category"])
	assert.Equal(t, true, got["is_inventory"])
	assert.Equal(t, "inventory", got["kind"])
	assert.Len(t, got["items"], 1)
}

func TestProduct_Status(t *testing.T) {
	p := Product{Stock: 0}
	assert.Equal(t, OutOfStock, p.Status(10))
	p.Stock = 10
	assert.Equal(t, LowStock, p.Status(10))
	p.Stock = 11
	assert.Equal(t, InStock, p.Status(10))

	p.WeightedAverageCost = decimal.RequireFromString("2.5")
	assert.True(t, p.InventoryValue().Equal(decimal.RequireFromString("27.5")))
}
