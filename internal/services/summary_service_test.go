package services

import (
	"log/slog"
	"testing"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestSummaryService(t *testing.T) {
	suite.Run(t, new(SummaryServiceSuite))
}

type SummaryServiceSuite struct {
	suite.Suite
	db      *database.DB
	repo    repositories.TransactionRepositoryInterface
	service *SummaryService
	now     time.Time
}

func (s *SummaryServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = repositories.NewTransactionRepository(s.db.DB)
	s.now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	s.service = NewSummaryService(s.repo, slog.Default()).(*SummaryService)
	s.service.now = func() time.Time { return s.now }
}

func (s *SummaryServiceSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *SummaryServiceSuite) TestGetSummary_WorkedExample() {
	user := database.CreateTestUser(s.T(), s.db, "summary@example.com")
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeIncome, "100", s.now)
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeExpense, "40", s.now)
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeSavings, "20", s.now)

	summary, err := s.service.GetSummary(user.ID, "2024-03")
	s.NoError(err)
	s.Equal("100.00", summary.TotalIncome)
	s.Equal("40.00", summary.TotalExpenses)
	s.Equal("20.00", summary.TotalSavings)
	s.Equal("40.00", summary.Balance)
}

func (s *SummaryServiceSuite) TestGetSummary_EmptyIsZero() {
	user := database.CreateTestUser(s.T(), s.db, "empty@example.com")

	summary, err := s.service.GetSummary(user.ID, models.PeriodCurrent)
	s.NoError(err)
	s.Equal("0.00", summary.TotalIncome)
	s.Equal("0.00", summary.TotalExpenses)
	s.Equal("0.00", summary.TotalSavings)
	s.Equal("0.00", summary.Balance)
}

func (s *SummaryServiceSuite) TestGetSummary_PeriodFiltering() {
	user := database.CreateTestUser(s.T(), s.db, "filter@example.com")
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeIncome, "100", s.now)
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeIncome, "999", s.now.AddDate(0, -1, 0))

	summary, err := s.service.GetSummary(user.ID, models.PeriodCurrent)
	s.NoError(err)
	s.Equal("100.00", summary.TotalIncome)

	overall, err := s.service.GetSummary(user.ID, models.PeriodOverall)
	s.NoError(err)
	s.Equal("1099.00", overall.TotalIncome)
}

func (s *SummaryServiceSuite) TestGetSummary_MonthBoundaries() {
	user := database.CreateTestUser(s.T(), s.db, "boundary@example.com")

	monthStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeIncome, "100", monthStart)
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeIncome, "25", monthStart.AddDate(0, 1, 0).Add(-time.Second))
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeIncome, "999", monthStart.AddDate(0, 1, 0))

	summary, err := s.service.GetSummary(user.ID, "2024-03")
	s.NoError(err)
	s.Equal("125.00", summary.TotalIncome)
}

func (s *SummaryServiceSuite) TestGetSummary_InvalidPeriod() {
	user := database.CreateTestUser(s.T(), s.db, "badperiod@example.com")

	_, err := s.service.GetSummary(user.ID, "last-tuesday")
	s.Error(err)
}

func (s *SummaryServiceSuite) TestGetMonthlySeries_OnlyDataMonths() {
	user := database.CreateTestUser(s.T(), s.db, "series@example.com")
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeIncome, "50", s.now)
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeExpense, "10", s.now.AddDate(0, -2, 0))
	// Months with no transactions in between produce no zero rows
	database.CreateTestTransaction(s.T(), s.db, user.ID, models.TransactionTypeIncome, "777", s.now.AddDate(-2, 0, 0))

	series, err := s.service.GetMonthlySeries(user.ID)
	s.NoError(err)
	s.Len(series.Months, 3)

	// Oldest first; a two-year-old month still counts as a data month
	s.Equal("2022-03", series.Months[0].Date)
	s.Equal("777.00", series.Months[0].Income)
	s.Equal("2024-01", series.Months[1].Date)
	s.Equal("10.00", series.Months[1].Expenses)
	s.Equal("2024-03", series.Months[2].Date)
	s.Equal("50.00", series.Months[2].Income)
}

func (s *SummaryServiceSuite) TestGetMonthlySeries_EmptyIsEmpty() {
	user := database.CreateTestUser(s.T(), s.db, "noseries@example.com")

	series, err := s.service.GetMonthlySeries(user.ID)
	s.NoError(err)
	s.Empty(series.Months)
}

func TestBalance(t *testing.T) {
	income := decimal.NewFromInt(100)
	expenses := decimal.NewFromInt(40)
	savings := decimal.NewFromInt(20)

	if got := Balance(income, expenses, savings); !got.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Balance(100, 40, 20) = %s, want 40", got)
	}

	// Savings reduce the balance just like expenses do
	if got := Balance(decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(25)); !got.Equal(decimal.NewFromInt(-15)) {
		t.Errorf("Balance(10, 0, 25) = %s, want -15", got)
	}
}

func TestMonthlySeries_KeepsMostRecentTwelveDataMonths(t *testing.T) {
	start := time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)

	var transactions []models.Transaction
	for i := 0; i < 14; i++ {
		transactions = append(transactions, models.Transaction{
			Type:   models.TransactionTypeIncome,
			Amount: decimal.NewFromInt(int64(i + 1)),
			Date:   start.AddDate(0, i, 0),
		})
	}

	points := MonthlySeries(transactions)
	if len(points) != TrailingMonths {
		t.Fatalf("len(points) = %d, want %d", len(points), TrailingMonths)
	}

	// The two oldest data months fall off the front
	if points[0].Date != "2023-03" {
		t.Errorf("points[0].Date = %s, want 2023-03", points[0].Date)
	}
	if points[len(points)-1].Date != "2024-02" {
		t.Errorf("last point date = %s, want 2024-02", points[len(points)-1].Date)
	}
}

func TestMonthlySeries_BucketsWithinMonth(t *testing.T) {
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		{Type: models.TransactionTypeIncome, Amount: decimal.NewFromInt(100), Date: date},
		{Type: models.TransactionTypeIncome, Amount: decimal.NewFromInt(25), Date: date.AddDate(0, 0, 20)},
		{Type: models.TransactionTypeSavings, Amount: decimal.NewFromInt(30), Date: date},
	}

	points := MonthlySeries(transactions)
	if len(points) != 1 {
		t.Fatalf("len(points) = %d, want 1", len(points))
	}
	if !points[0].Income.Equal(decimal.NewFromInt(125)) {
		t.Errorf("Income = %s, want 125", points[0].Income)
	}
	if !points[0].Savings.Equal(decimal.NewFromInt(30)) {
		t.Errorf("Savings = %s, want 30", points[0].Savings)
	}
}

func TestSummarize_IgnoresUnknownTypes(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		{Type: models.TransactionTypeIncome, Amount: decimal.NewFromInt(100), Date: now},
		{Type: "transfer", Amount: decimal.NewFromInt(500), Date: now},
	}

	summary := Summarize(transactions, models.PeriodOverall, now)
	if !summary.TotalIncome.Equal(decimal.NewFromInt(100)) {
		t.Errorf("TotalIncome = %s, want 100", summary.TotalIncome)
	}
	if !summary.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Balance = %s, want 100", summary.Balance)
	}
}
