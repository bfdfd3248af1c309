package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PeriodCurrent selects the calendar month containing "now".
	PeriodCurrent = "current"
	// PeriodOverall applies no date filter.
	PeriodOverall = "overall"
)

// Period is the aggregation window: "current", "overall", or an explicit
// YYYY-MM month.
type Period string

// Validate rejects periods that are neither a named selector nor a parseable
// YYYY-MM month.
func (p Period) Validate() error {
	switch string(p) {
	case PeriodCurrent, PeriodOverall:
		return nil
	}

	if _, err := time.Parse(MonthKeyLayout, string(p)); err != nil {
		return fmt.Errorf("invalid period %q: expected %q, %q, or YYYY-MM", p, PeriodCurrent, PeriodOverall)
	}
	return nil
}

// MonthKey resolves the period to a concrete YYYY-MM key, or "" when the
// period applies no filter.
func (p Period) MonthKey(now time.Time) string {
	switch string(p) {
	case PeriodCurrent:
		return now.Format(MonthKeyLayout)
	case PeriodOverall:
		return ""
	default:
		return string(p)
	}
}

// Contains reports whether a transaction date falls inside the period.
func (p Period) Contains(date time.Time, now time.Time) bool {
	key := p.MonthKey(now)
	if key == "" {
		return true
	}
	return date.Format(MonthKeyLayout) == key
}

// FinancialSummary is the derived per-period aggregate. Balance is income
// minus expenses minus savings; savings count as money set aside, not kept.
type FinancialSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalSavings  decimal.Decimal `json:"total_savings"`
	Balance       decimal.Decimal `json:"balance"`
}

// ZeroFinancialSummary returns an all-zero summary. Aggregation never fails;
// it degrades to this value on empty input.
func ZeroFinancialSummary() FinancialSummary {
	return FinancialSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalSavings:  decimal.Zero,
		Balance:       decimal.Zero,
	}
}

// MonthlyDataPoint is one calendar month of the trailing time series.
type MonthlyDataPoint struct {
	Date     string          `json:"date"` // YYYY-MM
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
}
