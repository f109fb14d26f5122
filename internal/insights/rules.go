package insights

import (
	"fmt"
	"math"
	"strings"

	"contauno/internal/kpi"
	"contauno/internal/ledger"
)

// compositionDepth is how many leading categories the composition rule compares.
const compositionDepth = 2

// Generate evaluates every rule for the current period. previous may be nil,
// in which case trend and composition rules are skipped.
func Generate(policy Policy, current Period, previous *Period) Report {
	b := newBuilder()

	if len(current.Transactions) == 0 {
		b.add(Attention, TopicNoData, "Not enough data for an analysis yet. Record some transactions.")
		return b.report
	}

	s := current.Summary
	balanceRule(b, s)
	ratioRule(b, policy, s)
	topCategoryRules(b, policy, current.Transactions)
	savingsRule(b, policy, s)
	if previous != nil {
		trendRules(b, policy, s, previous.Summary)
		compositionRules(b, current.Transactions, previous.Transactions)
	}
	return b.report
}

func balanceRule(b *builder, s kpi.Summary) {
	if s.Balance.IsPositive() {
		b.add(Positive, TopicPositiveBalance,
			fmt.Sprintf("Positive balance of %s. Keep it up.", s.Balance.StringFixed(2)))
		return
	}
	b.add(Attention, TopicNegativeBalance,
		fmt.Sprintf("Balance of %s. Review income and expenses.", s.Balance.StringFixed(2)))
}

func ratioRule(b *builder, p Policy, s kpi.Summary) {
	ratio, ok := s.ExpenseRatio()
	if !ok {
		if s.Expense.IsPositive() {
			b.add(Attention, TopicNoIncome, "No income was recorded in this period.")
		}
		return
	}
	switch {
	case ratio < p.HealthyRatio:
		b.add(Positive, TopicLowExpenseRatio,
			fmt.Sprintf("Expenses are %.1f%% of income.", ratio))
	case ratio <= p.HighRatio:
		b.add(Recommendation, TopicHealthyRatio,
			fmt.Sprintf("Expenses are %.1f%% of income. Look for costs to trim to widen the margin.", ratio))
	default:
		b.add(Attention, TopicHighExpenseRatio,
			fmt.Sprintf("Expenses are %.1f%% of income. Cut non-essential costs.", ratio))
	}
}

func topCategoryRules(b *builder, p Policy, txs []ledger.Transaction) {
	if top := kpi.TopCategories(txs, ledger.Expense, p.TopCategoryLimit); len(top) > 0 {
		b.add(Attention, "expense-"+top[0].Name,
			fmt.Sprintf("Largest expenses: %s. Are they essential to the business?", describe(top)))
	}
	if top := kpi.TopCategories(txs, ledger.Income, p.TopCategoryLimit); len(top) > 0 {
		b.add(Recommendation, "income-"+top[0].Name,
			fmt.Sprintf("Main income sources: %s. Consider strengthening and diversifying them.", describe(top)))
	}
}

func savingsRule(b *builder, p Policy, s kpi.Summary) {
	if !s.Balance.IsPositive() {
		return
	}
	if ratio, ok := s.ExpenseRatio(); ok && ratio >= p.SavingsRatio {
		return
	}
	b.add(Recommendation, TopicSavings, "With a healthy margin, consider building a reserve fund or investing.")
}

// trendRules compare totals with the previous period. Without a baseline a
// total only counts as risen when it actually grew.
func trendRules(b *builder, p Policy, cur, prev kpi.Summary) {
	income := kpi.CompareWithPrevious(cur.Income, prev.Income)
	if change, ok := trendChange(income); ok {
		switch {
		case change > p.IncomeRise:
			b.add(Positive, TopicIncomeTrend, "Income rose "+formatChange(change)+" against the previous period.")
		case change < p.IncomeDrop:
			b.add(Attention, TopicIncomeTrend, "Income fell "+formatChange(change)+" against the previous period.")
		}
	}

	expense := kpi.CompareWithPrevious(cur.Expense, prev.Expense)
	if change, ok := trendChange(expense); ok {
		switch {
		case change > p.ExpenseRise:
			b.add(Attention, TopicExpenseTrend, "Expenses rose "+formatChange(change)+" against the previous period.")
		case change < p.ExpenseDrop:
			b.add(Positive, TopicExpenseTrend, "Expenses fell "+formatChange(change)+" against the previous period.")
		}
	}
}

func trendChange(c kpi.Comparison) (float64, bool) {
	if c.HasBaseline() {
		return c.PercentageChange, true
	}
	return c.PercentageChange, c.Difference.IsPositive()
}

func formatChange(change float64) string {
	if math.IsInf(change, 1) {
		return "from nothing"
	}
	return fmt.Sprintf("%.1f%%", math.Abs(change))
}

func compositionRules(b *builder, cur, prev []ledger.Transaction) {
	if len(prev) == 0 {
		return
	}
	if leadersChanged(cur, prev, ledger.Income) {
		b.add(Recommendation, TopicIncomeMix,
			"Your main income sources changed compared with the previous period. Review the new trend.")
	}
	if leadersChanged(cur, prev, ledger.Expense) {
		b.add(Recommendation, TopicExpenseMix,
			"The mix of your largest expenses changed compared with the previous period. Check whether that was expected.")
	}
}

func leadersChanged(cur, prev []ledger.Transaction, typ ledger.Type) bool {
	a := kpi.TopCategories(cur, typ, compositionDepth)
	c := kpi.TopCategories(prev, typ, compositionDepth)
	if len(a) == 0 || len(c) == 0 {
		return false
	}
	return names(a) != names(c)
}

func names(shares []kpi.CategoryShare) string {
	out := make([]string, len(shares))
	for i, s := range shares {
		out[i] = s.Name
	}
	return strings.Join(out, ",")
}

func describe(shares []kpi.CategoryShare) string {
	parts := make([]string, len(shares))
	for i, s := range shares {
		parts[i] = fmt.Sprintf("%s (%.0f%%)", s.Name, s.Percentage)
	}
	return strings.Join(parts, ", ")
}
