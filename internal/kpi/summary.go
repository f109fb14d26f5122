// Package kpi reduces transaction sets to totals and derived indicators.
// Every function here is a pure fold over its input.
package kpi

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"contauno/internal/ledger"
)

var hundred = decimal.NewFromInt(100)

// Summary is the income/expense/balance triple of a transaction set.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// CalculateSummary totals income and expense. Decimal addition is exact, so
// the result does not depend on the order of txs.
func CalculateSummary(txs []ledger.Transaction) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case ledger.Income:
			income = income.Add(t.Amount())
		case ledger.Expense:
			expense = expense.Add(t.Amount())
		}
	}
	return Summary{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// ExpenseRatio returns expense as a percentage of income. ok is false when
// there is no income to compare against.
func (s Summary) ExpenseRatio() (ratio float64, ok bool) {
	if !s.Income.IsPositive() {
		return 0, false
	}
	return s.Expense.Div(s.Income).Mul(hundred).InexactFloat64(), true
}

// IsEmpty reports whether nothing was recorded.
func (s Summary) IsEmpty() bool {
	return s.Income.IsZero() && s.Expense.IsZero()
}

// DayNet is the net result of one calendar day.
type DayNet struct {
	Date string          `json:"date"`
	Net  decimal.Decimal `json:"net"`
}

// BestDay returns the day with the highest net result. Ties go to the day
// seen first in txs. ok is false for an empty input.
func BestDay(txs []ledger.Transaction) (best DayNet, ok bool) {
	nets := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range txs {
		key := t.DateKey()
		if _, seen := nets[key]; !seen {
			order = append(order, key)
		}
		nets[key] = nets[key].Add(t.Signed())
	}

	for _, key := range order {
		if !ok || nets[key].GreaterThan(best.Net) {
			best = DayNet{Date: key, Net: nets[key]}
			ok = true
		}
	}
	return best, ok
}

// CategoryShare is one category's total and its share of the type total.
type CategoryShare struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// TopCategories ranks the categories of the given type by total amount,
// largest first, keeping at most limit entries (all when limit <= 0). Equal
// totals keep the order in which the categories first appear.
func TopCategories(txs []ledger.Transaction, typ ledger.Type, limit int) []CategoryShare {
	totals := make(map[string]decimal.Decimal)
	var order []string
	grand := decimal.Zero
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		name := t.Category()
		if name == "" {
			name = ledger.Uncategorized
		}
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] = totals[name].Add(t.Amount())
		grand = grand.Add(t.Amount())
	}
	if !grand.IsPositive() {
		return []CategoryShare{}
	}

	shares := make([]CategoryShare, 0, len(order))
	for _, name := range order {
		shares = append(shares, CategoryShare{
			Name:       name,
			Amount:     totals[name],
			Percentage: totals[name].Div(grand).Mul(hundred).InexactFloat64(),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.GreaterThan(shares[j].Amount)
	})
	if limit > 0 && len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}

// Comparison is the change of a total against the previous period.
type Comparison struct {
	Difference decimal.Decimal
	// PercentageChange is +Inf when the previous total is zero.
	PercentageChange float64
}

// CompareWithPrevious computes the absolute and relative change.
func CompareWithPrevious(current, previous decimal.Decimal) Comparison {
	diff := current.Sub(previous)
	if previous.IsZero() {
		return Comparison{Difference: diff, PercentageChange: math.Inf(1)}
	}
	return Comparison{
		Difference:       diff,
		PercentageChange: diff.Div(previous).Mul(hundred).InexactFloat64(),
	}
}

// HasBaseline reports whether the previous total was non-zero.
func (c Comparison) HasBaseline() bool {
	return !math.IsInf(c.PercentageChange, 1)
}

// MarshalJSON renders a missing baseline as a null percentage, since JSON has
// no infinity.
func (c Comparison) MarshalJSON() ([]byte, error) {
	var pct *float64
	if c.HasBaseline() {
		p := c.PercentageChange
		pct = &p
	}
	return json.Marshal(struct {
		Difference       decimal.Decimal `json:"difference"`
		PercentageChange *float64        `json:"percentage_change"`
		HasBaseline      bool            `json:"has_baseline"`
	}{c.Difference, pct, c.HasBaseline()})
}

// DayTotals are the income and expense recorded on one day.
type DayTotals struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
	Count   int             `json:"count"`
}

// DailyTotals returns one entry per day present in txs, oldest first.
func DailyTotals(txs []ledger.Transaction) []DayTotals {
	byDay := make(map[string]*DayTotals)
	for _, t := range txs {
		addTo(byDay, t)
	}
	out := make([]DayTotals, 0, len(byDay))
	for _, d := range byDay {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DailyFlow returns one entry for every day of the month, zero-filled, and
// ignores transactions outside it.
func DailyFlow(txs []ledger.Transaction, month time.Month, year int) []DayTotals {
	byDay := make(map[string]*DayTotals)
	r := ledger.MonthRange(month, year)
	for _, t := range txs {
		if r.Contains(t.Date) {
			addTo(byDay, t)
		}
	}

	days := ledger.DaysIn(month, year)
	out := make([]DayTotals, 0, days)
	for d := 1; d <= days; d++ {
		key := ledger.FormatDate(ledger.Date(year, month, d))
		if entry, ok := byDay[key]; ok {
			out = append(out, *entry)
			continue
		}
		out = append(out, DayTotals{Date: key, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero})
	}
	return out
}

func addTo(byDay map[string]*DayTotals, t ledger.Transaction) {
	key := t.DateKey()
	d, ok := byDay[key]
	if !ok {
		d = &DayTotals{Date: key, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
		byDay[key] = d
	}
	switch t.Type {
	case ledger.Income:
		d.Income = d.Income.Add(t.Amount())
	case ledger.Expense:
		d.Expense = d.Expense.Add(t.Amount())
	}
	d.Net = d.Income.Sub(d.Expense)
	d.Count++
}
