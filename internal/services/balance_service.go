package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "contauno/internal/errors"
	"contauno/internal/kpi"
	"contauno/internal/ledger"
	"contauno/internal/period"
	"contauno/internal/store"
)

// balanceService builds period balances from the stored ledger.
type balanceService struct {
	db *gorm.DB
}

// NewBalanceService creates a new BalanceServicer.
func NewBalanceService(db *gorm.DB) BalanceServicer {
	return &balanceService{db: db}
}

func validateMonth(month time.Month, year int) error {
	if month < time.January || month > time.December {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	return validateYear(year)
}

func validateYear(year int) error {
	if year < 1 || year > 9999 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year is out of range")
	}
	return nil
}

func (s *balanceService) read(userID string, r ledger.DateRange) ([]ledger.Transaction, error) {
	return store.New(s.db, userID).ReadTransactions(r)
}

func (s *balanceService) GetDayBalance(userID string, day time.Time) (*DayBalance, error) {
	txs, err := store.New(s.db, userID).ReadDay(day)
	if err != nil {
		return nil, err
	}
	return &DayBalance{
		Date:         ledger.FormatDate(day),
		Transactions: txs,
		Summary:      kpi.CalculateSummary(txs),
	}, nil
}

// GetCalendar returns per-day totals for the days of the month with
// activity.
func (s *balanceService) GetCalendar(userID string, month time.Month, year int) (*CalendarMonth, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}
	txs, err := s.read(userID, ledger.MonthRange(month, year))
	if err != nil {
		return nil, err
	}
	return &CalendarMonth{
		Year:    year,
		Month:   month,
		Days:    kpi.DailyTotals(txs),
		Summary: kpi.CalculateSummary(txs),
	}, nil
}

// GetWeeklyBalance splits the month into Monday weeks. Edge weeks count
// their days in the neighbouring months too; the month summary does not.
func (s *balanceService) GetWeeklyBalance(userID string, month time.Month, year int) (*WeeklyBalance, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}
	first, last := ledger.MonthBounds(month, year)
	r := ledger.DateRange{From: period.WeekStart(first), To: period.WeekStart(last).AddDate(0, 0, 6)}
	txs, err := s.read(userID, r)
	if err != nil {
		return nil, err
	}

	var inMonth []ledger.Transaction
	monthRange := ledger.MonthRange(month, year)
	for _, t := range txs {
		if monthRange.Contains(t.Date) {
			inMonth = append(inMonth, t)
		}
	}

	weeks := period.GroupByWeek(txs, month, year)
	out := make([]WeekBalance, len(weeks))
	for i, w := range weeks {
		from, to := w.Clip(month, year)
		out[i] = WeekBalance{
			Start:        ledger.FormatDate(w.Start),
			End:          ledger.FormatDate(w.End),
			From:         ledger.FormatDate(from),
			To:           ledger.FormatDate(to),
			Transactions: w.Transactions,
			Summary:      w.Summary,
		}
	}

	return &WeeklyBalance{
		Year:    year,
		Month:   month,
		Weeks:   out,
		Summary: kpi.CalculateSummary(inMonth),
	}, nil
}

func (s *balanceService) GetMonthlyBalance(userID string, year int) (*MonthlyBalance, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	txs, err := s.read(userID, ledger.YearRange(year))
	if err != nil {
		return nil, err
	}
	return &MonthlyBalance{
		Year:    year,
		Months:  period.GroupByMonth(txs, year),
		Summary: kpi.CalculateSummary(txs),
	}, nil
}

// GetAnnualBalance returns every year with activity, oldest first.
func (s *balanceService) GetAnnualBalance(userID string) ([]period.Year, error) {
	txs, err := s.read(userID, ledger.AllDates)
	if err != nil {
		return nil, err
	}
	years := period.GroupByYear(txs)
	if years == nil {
		years = []period.Year{}
	}
	return years, nil
}

func (s *balanceService) GetMonthlyReport(userID string, month time.Month, year int) (*MonthlyReport, error) {
	if err := validateMonth(month, year); err != nil {
		return nil, err
	}
	txs, err := s.read(userID, ledger.MonthRange(month, year))
	if err != nil {
		return nil, err
	}
	return &MonthlyReport{
		Year:         year,
		Month:        month,
		Summary:      kpi.CalculateSummary(txs),
		Transactions: txs,
	}, nil
}
