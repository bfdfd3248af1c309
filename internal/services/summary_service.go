package services

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrailingMonths caps the monthly series at the most recent twelve months
// that actually contain transactions.
const TrailingMonths = 12

// SummaryService derives aggregate views from a user's transactions. All
// aggregation happens over an in-memory snapshot so a single read serves the
// whole computation.
type SummaryService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	logger          *slog.Logger
	now             func() time.Time
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	transactionRepo repositories.TransactionRepositoryInterface,
	logger *slog.Logger,
) SummaryServiceInterface {
	return &SummaryService{
		transactionRepo: transactionRepo,
		logger:          logger,
		now:             time.Now,
	}
}

// GetSummary computes the period totals and balance for a user
func (s *SummaryService) GetSummary(userID uuid.UUID, period models.Period) (*dto.SummaryResponse, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	transactions, err := s.loadForPeriod(userID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	summary := Summarize(transactions, period, s.now())

	return &dto.SummaryResponse{
		Period:        string(period),
		TotalIncome:   summary.TotalIncome.StringFixed(2),
		TotalExpenses: summary.TotalExpenses.StringFixed(2),
		TotalSavings:  summary.TotalSavings.StringFixed(2),
		Balance:       summary.Balance.StringFixed(2),
	}, nil
}

// loadForPeriod pushes the period filter into the repository: month-scoped
// periods fetch only that month's rows, overall fetches everything.
func (s *SummaryService) loadForPeriod(userID uuid.UUID, period models.Period) ([]models.Transaction, error) {
	key := period.MonthKey(s.now())
	if key == "" {
		return s.transactionRepo.GetByUserID(userID)
	}

	start, err := time.Parse(models.MonthKeyLayout, key)
	if err != nil {
		return nil, fmt.Errorf("invalid month key %q: %w", key, err)
	}

	return s.transactionRepo.GetByUserIDAndDateRange(userID, start, start.AddDate(0, 1, 0))
}

// GetMonthlySeries computes the monthly series for a user, oldest month
// first: the most recent twelve months that contain transactions. A user
// with no transactions gets an empty series.
func (s *SummaryService) GetMonthlySeries(userID uuid.UUID) (*dto.MonthlySeriesResponse, error) {
	transactions, err := s.transactionRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	points := MonthlySeries(transactions)

	response := &dto.MonthlySeriesResponse{
		Months: make([]dto.MonthlyDataPointResponse, 0, len(points)),
	}
	for _, p := range points {
		response.Months = append(response.Months, dto.MonthlyDataPointResponse{
			Date:     p.Date,
			Income:   p.Income.StringFixed(2),
			Expenses: p.Expenses.StringFixed(2),
			Savings:  p.Savings.StringFixed(2),
		})
	}

	return response, nil
}

// Summarize computes period totals over a transaction snapshot. Transactions
// outside the period and unknown types are ignored; the result degrades to
// all zeroes on empty input.
func Summarize(transactions []models.Transaction, period models.Period, now time.Time) models.FinancialSummary {
	summary := models.ZeroFinancialSummary()

	for i := range transactions {
		t := &transactions[i]
		if !period.Contains(t.Date, now) {
			continue
		}

		switch t.Type {
		case models.TransactionTypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)
		case models.TransactionTypeSavings:
			summary.TotalSavings = summary.TotalSavings.Add(t.Amount)
		}
	}

	summary.Balance = Balance(summary.TotalIncome, summary.TotalExpenses, summary.TotalSavings)
	return summary
}

// Balance is income minus expenses minus savings. Money set aside is not
// spendable, so it reduces the balance alongside expenses.
func Balance(income, expenses, savings decimal.Decimal) decimal.Decimal {
	return income.Sub(expenses).Sub(savings)
}

// MonthlySeries buckets a transaction snapshot by calendar month. Only months
// that contain transactions appear; the result is sorted oldest first and
// capped to the most recent twelve data months. Empty input yields an empty
// series.
func MonthlySeries(transactions []models.Transaction) []models.MonthlyDataPoint {
	index := make(map[string]*models.MonthlyDataPoint)

	for i := range transactions {
		t := &transactions[i]
		key := t.MonthKey()

		point, ok := index[key]
		if !ok {
			point = &models.MonthlyDataPoint{
				Date:     key,
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
				Savings:  decimal.Zero,
			}
			index[key] = point
		}

		switch t.Type {
		case models.TransactionTypeIncome:
			point.Income = point.Income.Add(t.Amount)
		case models.TransactionTypeExpense:
			point.Expenses = point.Expenses.Add(t.Amount)
		case models.TransactionTypeSavings:
			point.Savings = point.Savings.Add(t.Amount)
		}
	}

	keys := make([]string, 0, len(index))
	for key := range index {
		keys = append(keys, key)
	}
	// YYYY-MM keys sort chronologically as strings
	sort.Strings(keys)
	if len(keys) > TrailingMonths {
		keys = keys[len(keys)-TrailingMonths:]
	}

	points := make([]models.MonthlyDataPoint, 0, len(keys))
	for _, key := range keys {
		points = append(points, *index[key])
	}

	return points
}
