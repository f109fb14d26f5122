// Package period partitions transactions into weekly, monthly and yearly
// buckets. Buckets are rebuilt on every call and never persisted.
package period

import (
	"encoding/json"
	"sort"
	"time"

	"contauno/internal/kpi"
	"contauno/internal/ledger"
)

// Week is a Monday-to-Sunday bucket.
type Week struct {
	Start        time.Time            `json:"-"`
	End          time.Time            `json:"-"`
	Transactions []ledger.Transaction `json:"transactions"`
	Summary      kpi.Summary          `json:"summary"`
}

// Clip narrows the week to the part inside the month, for display. It does
// not change which transactions the week counts.
func (w Week) Clip(month time.Month, year int) (from, to time.Time) {
	first, last := ledger.MonthBounds(month, year)
	from, to = w.Start, w.End
	if from.Before(first) {
		from = first
	}
	if to.After(last) {
		to = last
	}
	return from, to
}

// MarshalJSON renders the week bounds as calendar days.
func (w Week) MarshalJSON() ([]byte, error) {
	type plain Week
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
		plain
	}{ledger.FormatDate(w.Start), ledger.FormatDate(w.End), plain(w)})
}

// Month is a calendar-month bucket.
type Month struct {
	Year         int                  `json:"year"`
	Month        time.Month           `json:"month"`
	Transactions []ledger.Transaction `json:"transactions"`
	Summary      kpi.Summary          `json:"summary"`
}

// Year is a calendar-year bucket.
type Year struct {
	Year         int                  `json:"year"`
	Transactions []ledger.Transaction `json:"transactions"`
	Summary      kpi.Summary          `json:"summary"`
}

// WeekStart returns the Monday on or before d.
func WeekStart(d time.Time) time.Time {
	d = ledger.Day(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// GroupByWeek covers the month with consecutive seven-day weeks starting on
// the Monday on or before the 1st, emitting empty weeks too. A transaction
// belongs to the week whose [Start, End] contains its day.
func GroupByWeek(txs []ledger.Transaction, month time.Month, year int) []Week {
	_, last := ledger.MonthBounds(month, year)
	var weeks []Week
	for start := WeekStart(ledger.Date(year, month, 1)); !start.After(last); start = start.AddDate(0, 0, 7) {
		w := Week{Start: start, End: start.AddDate(0, 0, 6), Transactions: []ledger.Transaction{}}
		r := ledger.DateRange{From: w.Start, To: w.End}
		for _, t := range txs {
			if r.Contains(t.Date) {
				w.Transactions = append(w.Transactions, t)
			}
		}
		w.Summary = kpi.CalculateSummary(w.Transactions)
		weeks = append(weeks, w)
	}
	return weeks
}

// GroupByMonth returns the twelve months of year; other years are ignored.
func GroupByMonth(txs []ledger.Transaction, year int) []Month {
	months := make([]Month, 12)
	for i := range months {
		months[i] = Month{Year: year, Month: time.Month(i + 1), Transactions: []ledger.Transaction{}}
	}
	for _, t := range txs {
		d := ledger.Day(t.Date)
		if d.Year() != year {
			continue
		}
		m := &months[d.Month()-1]
		m.Transactions = append(m.Transactions, t)
	}
	for i := range months {
		months[i].Summary = kpi.CalculateSummary(months[i].Transactions)
	}
	return months
}

// GroupByYear returns one bucket per year present in txs, oldest first.
func GroupByYear(txs []ledger.Transaction) []Year {
	byYear := make(map[int][]ledger.Transaction)
	for _, t := range txs {
		y := ledger.Day(t.Date).Year()
		byYear[y] = append(byYear[y], t)
	}
	years := make([]Year, 0, len(byYear))
	for y, list := range byYear {
		years = append(years, Year{Year: y, Transactions: list, Summary: kpi.CalculateSummary(list)})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years
}
