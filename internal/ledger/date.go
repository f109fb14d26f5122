package ledger

import (
	"time"
)

// DateLayout is the canonical textual form of a calendar day.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of the calendar day t shows in its own
// location. All bucket boundaries and comparisons use this form.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders the calendar day of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// MonthBounds returns the first and last calendar day of the month.
func MonthBounds(month time.Month, year int) (first, last time.Time) {
	first = Date(year, month, 1)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// DaysIn returns the number of days in the month.
func DaysIn(month time.Month, year int) int {
	_, last := MonthBounds(month, year)
	return last.Day()
}

// PreviousMonth returns the month before (month, year).
func PreviousMonth(month time.Month, year int) (time.Month, int) {
	if month == time.January {
		return time.December, year - 1
	}
	return month - 1, year
}

// DateRange is an inclusive span of calendar days. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// AllDates is the unbounded range.
var AllDates = DateRange{}

// MonthRange covers a whole calendar month.
func MonthRange(month time.Month, year int) DateRange {
	first, last := MonthBounds(month, year)
	return DateRange{From: first, To: last}
}

// YearRange covers a whole calendar year.
func YearRange(year int) DateRange {
	return DateRange{From: Date(year, time.January, 1), To: Date(year, time.December, 31)}
}

// Contains reports whether the calendar day of d lies within r.
func (r DateRange) Contains(d time.Time) bool {
	d = Day(d)
	if !r.From.IsZero() && d.Before(Day(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(Day(r.To)) {
		return false
	}
	return true
}
