package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// stubMetrics is a no-op metrics recorder for service tests. The real
// Prometheus recorder registers collectors globally and cannot be constructed
// once per test.
type stubMetrics struct{}

func (stubMetrics) IncrementCounter(name string, tags map[string]string) {}
func (stubMetrics) RecordProcessingTime(name string, duration time.Duration) {}

func TestRecurrenceService(t *testing.T) {
	suite.Run(t, new(RecurrenceServiceSuite))
}

type RecurrenceServiceSuite struct {
	suite.Suite
	db      *database.DB
	repo    repositories.TransactionRepositoryInterface
	service *RecurrenceService
	user    *models.User
	now     time.Time
}

func (s *RecurrenceServiceSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = repositories.NewTransactionRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "recurrence@example.com")
	s.now = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

	s.service = NewRecurrenceService(s.repo, stubMetrics{}, slog.Default(), time.Minute).(*RecurrenceService)
	s.service.now = func() time.Time { return s.now }
}

func (s *RecurrenceServiceSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *RecurrenceServiceSuite) createRecurring(description, frequency string, billingDate int, date time.Time) *models.Transaction {
	tx := &models.Transaction{
		UserID:      s.user.ID,
		Amount:      decimal.NewFromInt(100),
		Description: description,
		Category:    "bills",
		Type:        models.TransactionTypeExpense,
		Date:        date,
		IsRecurring: true,
		Frequency:   frequency,
		BillingDate: billingDate,
	}
	s.Require().NoError(s.repo.Create(tx))
	return tx
}

func (s *RecurrenceServiceSuite) TestRunForUser_MonthlyDueOnBillingDay() {
	s.createRecurring("rent", models.FrequencyMonthly, 15, s.now.AddDate(0, -1, 0))

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(1, report.Created())
	s.Equal(0, report.NotDue())

	rows, err := s.repo.GetRecurringByUserID(s.user.ID)
	s.NoError(err)
	s.Len(rows, 2)

	latest := rows[len(rows)-1]
	s.Equal("rent", latest.Description)
	s.True(latest.IsRecurring)
	s.Equal(models.FrequencyMonthly, latest.Frequency)
	s.True(latest.Date.Equal(s.now))
}

func (s *RecurrenceServiceSuite) TestRunForUser_MonthlyNotDueTwiceInSameMonth() {
	s.createRecurring("rent", models.FrequencyMonthly, 15, s.now.AddDate(0, -1, 0))

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(1, report.Created())

	// Second run in the same month: the fresh occurrence is now the latest
	// row for the template, so nothing more is due.
	report, err = s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(0, report.Created())
	s.Equal(1, report.NotDue())

	rows, err := s.repo.GetRecurringByUserID(s.user.ID)
	s.NoError(err)
	s.Len(rows, 2)
}

func (s *RecurrenceServiceSuite) TestRunForUser_MonthlyNotDueOffBillingDay() {
	s.createRecurring("rent", models.FrequencyMonthly, 20, s.now.AddDate(0, -1, 0))

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(0, report.Created())
	s.Equal(1, report.NotDue())
}

func (s *RecurrenceServiceSuite) TestRunForUser_WeeklyDueAfterSevenDays() {
	s.createRecurring("groceries", models.FrequencyWeekly, 0, s.now.AddDate(0, 0, -8))

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(1, report.Created())
}

func (s *RecurrenceServiceSuite) TestRunForUser_WeeklyNotDueAtSixDays() {
	s.createRecurring("groceries", models.FrequencyWeekly, 0, s.now.AddDate(0, 0, -6))

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(0, report.Created())
	s.Equal(1, report.NotDue())
}

func (s *RecurrenceServiceSuite) TestRunForUser_YearlyDueOnAnniversary() {
	s.createRecurring("insurance", models.FrequencyYearly, 15, s.now.AddDate(-1, 0, 0))

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(1, report.Created())
}

func (s *RecurrenceServiceSuite) TestRunForUser_YearlyNotDueInSameYear() {
	s.createRecurring("insurance", models.FrequencyYearly, 15, s.now)

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(0, report.Created())
}

func (s *RecurrenceServiceSuite) TestRunForUser_DeduplicatesOccurrenceRows() {
	// A template plus an occurrence it produced last month share a recurrence
	// identity; the pair must evaluate as one template.
	s.createRecurring("rent", models.FrequencyMonthly, 15, s.now.AddDate(0, -2, 0))
	s.createRecurring("rent", models.FrequencyMonthly, 15, s.now.AddDate(0, -1, 0))

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Len(report.Outcomes, 1)
	s.Equal(1, report.Created())

	rows, err := s.repo.GetRecurringByUserID(s.user.ID)
	s.NoError(err)
	s.Len(rows, 3)
	s.Equal(1, report.ActiveTemplates)
}

func (s *RecurrenceServiceSuite) TestRunForUser_ReportsActiveTemplates() {
	s.createRecurring("rent", models.FrequencyMonthly, 15, s.now.AddDate(0, -1, 0))
	s.createRecurring("insurance", models.FrequencyMonthly, 20, s.now.AddDate(0, -1, 0))

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.NoError(err)
	s.Equal(1, report.Created())
	s.Equal(1, report.NotDue())

	// Counted after the run, so the freshly created occurrence collapses
	// into its template instead of inflating the number.
	s.Equal(2, report.ActiveTemplates)
}

func (s *RecurrenceServiceSuite) TestRunForUser_GuardedWhileInProgress() {
	s.createRecurring("rent", models.FrequencyMonthly, 15, s.now.AddDate(0, -1, 0))

	s.Require().True(s.service.acquire(s.user.ID))
	defer s.service.release(s.user.ID)

	report, err := s.service.RunForUser(context.Background(), s.user.ID, "manual")
	s.ErrorIs(err, ErrRunInProgress)
	s.Nil(report)

	// Nothing was created while the guard was held
	rows, err := s.repo.GetRecurringByUserID(s.user.ID)
	s.NoError(err)
	s.Len(rows, 1)
}

func (s *RecurrenceServiceSuite) TestRunAll_CoversEveryUserWithTemplates() {
	other := database.CreateTestUser(s.T(), s.db, "other@example.com")
	s.createRecurring("rent", models.FrequencyMonthly, 15, s.now.AddDate(0, -1, 0))

	otherTx := &models.Transaction{
		UserID:      other.ID,
		Amount:      decimal.NewFromInt(30),
		Description: "gym",
		Category:    "health",
		Type:        models.TransactionTypeExpense,
		Date:        s.now.AddDate(0, 0, -10),
		IsRecurring: true,
		Frequency:   models.FrequencyWeekly,
	}
	s.Require().NoError(s.repo.Create(otherTx))

	s.NoError(s.service.RunAll(context.Background(), "scheduler"))

	mine, err := s.repo.GetRecurringByUserID(s.user.ID)
	s.NoError(err)
	s.Len(mine, 2)

	theirs, err := s.repo.GetRecurringByUserID(other.ID)
	s.NoError(err)
	s.Len(theirs, 2)
}

func TestIsDue_UnknownFrequencyNeverDue(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	tx := &models.Transaction{
		IsRecurring: true,
		Frequency:   "fortnightly",
		Date:        now.AddDate(0, -1, 0),
		BillingDate: 15,
	}

	if IsDue(tx, now) {
		t.Error("transaction with unknown frequency must never be due")
	}
}

func TestIsDue_NonRecurringNeverDue(t *testing.T) {
	now := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	tx := &models.Transaction{
		ID:        uuid.New(),
		Frequency: models.FrequencyMonthly,
		Date:      now.AddDate(0, -1, 0),
	}

	if IsDue(tx, now) {
		t.Error("non-recurring transaction must never be due")
	}
}
