package kpi

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contauno/internal/ledger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(date string, typ ledger.Type, amount, category string) ledger.Transaction {
	d, err := ledger.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return ledger.Transaction{
		ID:   ledger.NewTransactionID(),
		Date: d,
		Type: typ,
		Body: ledger.Standard{Category: category, Description: "test", Amount: dec(amount)},
	}
}

func TestCalculateSummary(t *testing.T) {
	t.Run("empty input yields zeros", func(t *testing.T) {
		s := CalculateSummary(nil)
		assert.True(t, s.Income.IsZero())
		assert.True(t, s.Expense.IsZero())
		assert.True(t, s.Balance.IsZero())
	})

	t.Run("scenario totals", func(t *testing.T) {
		txs := []ledger.Transaction{
			tx("2025-06-02", ledger.Income, "1000000", "Sales"),
			tx("2025-06-03", ledger.Income, "200000", "Services"),
			tx("2025-06-03", ledger.Expense, "900000", "Rent"),
		}
		s := CalculateSummary(txs)
		assert.True(t, s.Income.Equal(dec("1200000")))
		assert.True(t, s.Expense.Equal(dec("900000")))
		assert.True(t, s.Balance.Equal(dec("300000")))

		ratio, ok := s.ExpenseRatio()
		require.True(t, ok)
		assert.InDelta(t, 75.0, ratio, 1e-9)
	})

	t.Run("order independent", func(t *testing.T) {
		var txs []ledger.Transaction
		for i := 0; i < 40; i++ {
			typ := ledger.Income
			if i%3 == 0 {
				typ = ledger.Expense
			}
			txs = append(txs, tx("2025-01-15", typ, decimal.NewFromFloat(float64(i)*1.37+0.01).String(), "X"))
		}
		want := CalculateSummary(txs)

		r := rand.New(rand.NewSource(7))
		for i := 0; i < 10; i++ {
			shuffled := append([]ledger.Transaction(nil), txs...)
			r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
			got := CalculateSummary(shuffled)
			assert.True(t, want.Income.Equal(got.Income))
			assert.True(t, want.Expense.Equal(got.Expense))
			assert.True(t, want.Balance.Equal(got.Balance))
		}
	})

	t.Run("inventory amounts are derived from items", func(t *testing.T) {
		sale := ledger.Transaction{
			ID:   1,
			Date: ledger.Date(2025, time.June, 4),
			Type: ledger.Income,
			Body: ledger.Inventory{Items: []ledger.Item{
				{ProductID: "a", Quantity: 2, UnitPrice: dec("10.50")},
				{ProductID: "b", Quantity: 1, UnitPrice: dec("4")},
			}},
		}
		s := CalculateSummary([]ledger.Transaction{sale})
		assert.True(t, s.Income.Equal(dec("25")))
	})
}

func TestExpenseRatio_NoIncome(t *testing.T) {
	s := CalculateSummary([]ledger.Transaction{tx("2025-06-02", ledger.Expense, "10", "Rent")})
	_, ok := s.ExpenseRatio()
	assert.False(t, ok)
}

func TestBestDay(t *testing.T) {
	t.Run("empty input has no result", func(t *testing.T) {
		_, ok := BestDay(nil)
		assert.False(t, ok)
	})

	t.Run("picks highest net", func(t *testing.T) {
		txs := []ledger.Transaction{
			tx("2025-06-01", ledger.Income, "100", "Sales"),
			tx("2025-06-02", ledger.Income, "500", "Sales"),
			tx("2025-06-02", ledger.Expense, "100", "Rent"),
			tx("2025-06-03", ledger.Income, "300", "Sales"),
		}
		best, ok := BestDay(txs)
		require.True(t, ok)
		assert.Equal(t, "2025-06-02", best.Date)
		assert.True(t, best.Net.Equal(dec("400")))
	})

	t.Run("ties go to the first day seen", func(t *testing.T) {
		txs := []ledger.Transaction{
			tx("2025-06-05", ledger.Income, "200", "Sales"),
			tx("2025-06-01", ledger.Income, "200", "Sales"),
		}
		best, ok := BestDay(txs)
		require.True(t, ok)
		assert.Equal(t, "2025-06-05", best.Date)
	})

	t.Run("all negative days", func(t *testing.T) {
		txs := []ledger.Transaction{
			tx("2025-06-01", ledger.Expense, "50", "Rent"),
			tx("2025-06-02", ledger.Expense, "20", "Rent"),
		}
		best, ok := BestDay(txs)
		require.True(t, ok)
		assert.Equal(t, "2025-06-02", best.Date)
	})
}

func TestTopCategories(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		got := TopCategories(nil, ledger.Income, 3)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("zero total of the type", func(t *testing.T) {
		txs := []ledger.Transaction{tx("2025-06-01", ledger.Expense, "50", "Rent")}
		assert.Empty(t, TopCategories(txs, ledger.Income, 3))
	})

	t.Run("ranks, limits and annotates", func(t *testing.T) {
		txs := []ledger.Transaction{
			tx("2025-06-01", ledger.Expense, "100", "Rent"),
			tx("2025-06-02", ledger.Expense, "300", "Supplies"),
			tx("2025-06-03", ledger.Expense, "50", "Marketing"),
			tx("2025-06-04", ledger.Expense, "50", "Rent"),
			tx("2025-06-04", ledger.Income, "999", "Sales"),
		}
		got := TopCategories(txs, ledger.Expense, 2)
		require.Len(t, got, 2)
		assert.Equal(t, "Supplies", got[0].Name)
		assert.InDelta(t, 60.0, got[0].Percentage, 1e-9)
		assert.Equal(t, "Rent", got[1].Name)
		assert.True(t, got[1].Amount.Equal(dec("150")))
		assert.InDelta(t, 30.0, got[1].Percentage, 1e-9)
	})

	t.Run("missing category is labelled", func(t *testing.T) {
		txs := []ledger.Transaction{tx("2025-06-01", ledger.Income, "10", "")}
		got := TopCategories(txs, ledger.Income, 3)
		require.Len(t, got, 1)
		assert.Equal(t, ledger.Uncategorized, got[0].Name)
		assert.InDelta(t, 100.0, got[0].Percentage, 1e-9)
	})

	t.Run("equal totals keep first-seen order", func(t *testing.T) {
		txs := []ledger.Transaction{
			tx("2025-06-01", ledger.Income, "10", "B"),
			tx("2025-06-01", ledger.Income, "10", "A"),
		}
		got := TopCategories(txs, ledger.Income, 0)
		require.Len(t, got, 2)
		assert.Equal(t, "B", got[0].Name)
		assert.Equal(t, "A", got[1].Name)
	})

	t.Run("inventory transactions report their sentinel", func(t *testing.T) {
		sale := ledger.Transaction{
			Date: ledger.Date(2025, time.June, 1),
			Type: ledger.Income,
			Body: ledger.Inventory{Items: []ledger.Item{{ProductID: "p", Quantity: 1, UnitPrice: dec("5")}}},
		}
		got := TopCategories([]ledger.Transaction{sale}, ledger.Income, 3)
		require.Len(t, got, 1)
		assert.Equal(t, ledger.CategoryInventorySale, got[0].Name)
	})
}

func TestCompareWithPrevious(t *testing.T) {
	c := CompareWithPrevious(dec("0"), dec("100"))
	assert.True(t, c.Difference.Equal(dec("-100")))
	assert.InDelta(t, -100.0, c.PercentageChange, 1e-9)
	assert.True(t, c.HasBaseline())

	c = CompareWithPrevious(dec("50"), dec("0"))
	assert.True(t, math.IsInf(c.PercentageChange, 1))
	assert.True(t, c.Difference.Equal(dec("50")))
	assert.False(t, c.HasBaseline())

	c = CompareWithPrevious(dec("150"), dec("100"))
	assert.InDelta(t, 50.0, c.PercentageChange, 1e-9)
}

func TestComparison_MarshalJSON(t *testing.T) {
	b, err := CompareWithPrevious(dec("50"), dec("0")).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"difference":"50","percentage_change":null,"has_baseline":false}`, string(b))

	b, err = CompareWithPrevious(dec("150"), dec("100")).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"difference":"50","percentage_change":50,"has_baseline":true}`, string(b))
}

func TestDailyFlow(t *testing.T) {
	txs := []ledger.Transaction{
		tx("2025-02-03", ledger.Income, "100", "Sales"),
		tx("2025-02-03", ledger.Expense, "40", "Rent"),
		tx("2025-03-01", ledger.Income, "999", "Sales"),
	}
	flow := DailyFlow(txs, time.February, 2025)
	require.Len(t, flow, 28)
	assert.Equal(t, "2025-02-01", flow[0].Date)
	assert.True(t, flow[0].Net.IsZero())
	assert.Equal(t, "2025-02-03", flow[2].Date)
	assert.True(t, flow[2].Net.Equal(dec("60")))
	assert.Equal(t, 2, flow[2].Count)

	totals := DailyTotals(txs)
	require.Len(t, totals, 2)
	assert.Equal(t, "2025-02-03", totals[0].Date)
	assert.Equal(t, "2025-03-01", totals[1].Date)
}
