// Package insights turns period KPIs into short advisory messages grouped as
// positive, attention or recommendation. Each topic is reported at most once.
package insights

import (
	"contauno/internal/kpi"
	"contauno/internal/ledger"
)

// Level classifies an insight.
type Level string

const (
	Positive       Level = "positive"
	Attention      Level = "attention"
	Recommendation Level = "recommendation"
)

// Topic keys used for deduplication.
const (
	TopicNoData           = "no-data"
	TopicPositiveBalance  = "positive-balance"
	TopicNegativeBalance  = "negative-balance"
	TopicLowExpenseRatio  = "low-expense-ratio"
	TopicHealthyRatio     = "healthy-expense-ratio"
	TopicHighExpenseRatio = "high-expense-ratio"
	TopicNoIncome         = "no-income-expense"
	TopicIncomeTrend      = "income-trend"
	TopicExpenseTrend     = "expense-trend"
	TopicIncomeMix        = "income-composition"
	TopicExpenseMix       = "expense-composition"
	TopicSavings          = "savings-investment"
)

// Policy holds the advisory thresholds, all in percent.
type Policy struct {
	IncomeRise       float64 // income change above this is positive
	IncomeDrop       float64 // income change below this needs attention
	ExpenseRise      float64 // expense change above this needs attention
	ExpenseDrop      float64 // expense change below this is positive
	HealthyRatio     float64 // expense ratio below this is positive
	HighRatio        float64 // expense ratio above this needs attention
	SavingsRatio     float64 // savings advice below this expense ratio
	TopCategoryLimit int
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		IncomeRise:       10,
		IncomeDrop:       -10,
		ExpenseRise:      15,
		ExpenseDrop:      -15,
		HealthyRatio:     50,
		HighRatio:        80,
		SavingsRatio:     70,
		TopCategoryLimit: 3,
	}
}

// Insight is one advisory message.
type Insight struct {
	Topic   string `json:"topic"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Report groups insights by level.
type Report struct {
	Positive        []Insight `json:"positive"`
	Attention       []Insight `json:"attention"`
	Recommendations []Insight `json:"recommendations"`
}

// Len is the total number of insights.
func (r Report) Len() int {
	return len(r.Positive) + len(r.Attention) + len(r.Recommendations)
}

// Period is the input for one evaluated period.
type Period struct {
	Transactions []ledger.Transaction
	Summary      kpi.Summary
}

// NewPeriod summarises txs.
func NewPeriod(txs []ledger.Transaction) Period {
	return Period{Transactions: txs, Summary: kpi.CalculateSummary(txs)}
}

// builder accumulates insights while dropping repeated topics.
type builder struct {
	seen   map[string]bool
	report Report
}

func newBuilder() *builder {
	return &builder{
		seen: make(map[string]bool),
		report: Report{
			Positive:        []Insight{},
			Attention:       []Insight{},
			Recommendations: []Insight{},
		},
	}
}

func (b *builder) add(level Level, topic, message string) {
	if b.seen[topic] {
		return
	}
	b.seen[topic] = true
	in := Insight{Topic: topic, Level: level, Message: message}
	switch level {
	case Positive:
		b.report.Positive = append(b.report.Positive, in)
	case Attention:
		b.report.Attention = append(b.report.Attention, in)
	default:
		b.report.Recommendations = append(b.report.Recommendations, in)
	}
}
