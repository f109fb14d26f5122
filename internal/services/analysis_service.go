package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"contauno/internal/insights"
	"contauno/internal/kpi"
	"contauno/internal/ledger"
	"contauno/internal/store"
)

// analysisService builds the monthly KPI report with its insights.
type analysisService struct {
	db     *gorm.DB
	policy insights.Policy
}

// NewAnalysisService creates a new AnalysisServicer using policy for the
// insight thresholds.
func NewAnalysisService(db *gorm.DB, policy insights.Policy) AnalysisServicer {
	return &analysisService{db: db, policy: policy}
}

// GetReport evaluates the month against the one before it.
func (s *analysisService) GetReport(ctx context.Context, userID string, month time.Month, year int) (*AnalysisReport, error) {
	ctx, span := tracer.Start(ctx, "AnalysisService.GetReport")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.Int("year", year), attribute.Int("month", int(month)))

	if err := validateMonth(month, year); err != nil {
		return nil, err
	}
	prevMonth, prevYear := ledger.PreviousMonth(month, year)

	var current, previous []ledger.Transaction
	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)
	g.Go(func() (err error) {
		current, err = store.New(db, userID).ReadTransactions(ledger.MonthRange(month, year))
		return err
	})
	g.Go(func() (err error) {
		previous, err = store.New(db, userID).ReadTransactions(ledger.MonthRange(prevMonth, prevYear))
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	cur := insights.NewPeriod(current)
	prev := insights.NewPeriod(previous)
	prevSummary := prev.Summary

	report := &AnalysisReport{
		Year:              year,
		Month:             month,
		Summary:           cur.Summary,
		TopIncome:         kpi.TopCategories(current, ledger.Income, s.policy.TopCategoryLimit),
		TopExpense:        kpi.TopCategories(current, ledger.Expense, s.policy.TopCategoryLimit),
		IncomeCategories:  kpi.TopCategories(current, ledger.Income, 0),
		ExpenseCategories: kpi.TopCategories(current, ledger.Expense, 0),
		DailyFlow:         kpi.DailyFlow(current, month, year),
		IncomeChange:      kpi.CompareWithPrevious(cur.Summary.Income, prevSummary.Income),
		ExpenseChange:     kpi.CompareWithPrevious(cur.Summary.Expense, prevSummary.Expense),
		BalanceChange:     kpi.CompareWithPrevious(cur.Summary.Balance, prevSummary.Balance),
		Insights:          insights.Generate(s.policy, cur, &prev),
	}
	if ratio, ok := cur.Summary.ExpenseRatio(); ok {
		report.ExpenseRatio = &ratio
	}
	if best, ok := kpi.BestDay(current); ok {
		report.BestDay = &best
	}
	span.SetAttributes(attribute.Int("transactions", len(current)), attribute.Int("insights", report.Insights.Len()))
	return report, nil
}
