package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

// Outcome statuses for a single recurring template within a run.
const (
	OutcomeCreated = "created"
	OutcomeNotDue  = "not_due"
	OutcomeFailed  = "failed"
)

var (
	// ErrRunInProgress is returned when a run is requested for a user whose
	// previous run has not finished yet. The caller treats it as a no-op.
	ErrRunInProgress = errors.New("recurrence run already in progress")
)

// RecurrenceOutcome is the result of evaluating one recurring template.
type RecurrenceOutcome struct {
	TransactionID uuid.UUID
	Description   string
	Status        string
	Err           error
}

// RunReport summarizes a recurrence evaluation run for one user.
// ActiveTemplates is the number of distinct recurring templates on record
// once the run has finished.
type RunReport struct {
	UserID          uuid.UUID
	StartedAt       time.Time
	FinishedAt      time.Time
	ActiveTemplates int
	Outcomes        []RecurrenceOutcome
}

// Created returns the number of occurrences materialized during the run.
func (r *RunReport) Created() int { return r.countByStatus(OutcomeCreated) }

// NotDue returns the number of templates that were evaluated but not due.
func (r *RunReport) NotDue() int { return r.countByStatus(OutcomeNotDue) }

// Failed returns the number of templates whose occurrence could not be stored.
func (r *RunReport) Failed() int { return r.countByStatus(OutcomeFailed) }

func (r *RunReport) countByStatus(status string) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// RecurrenceService evaluates recurring transaction templates and materializes
// occurrences that have come due. Runs for the same user are serialized: while
// one is in flight, further triggers return ErrRunInProgress instead of
// evaluating the same templates twice.
type RecurrenceService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	runTimeout      time.Duration
	now             func() time.Time

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewRecurrenceService creates a new recurrence service
func NewRecurrenceService(
	transactionRepo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	runTimeout time.Duration,
) RecurrenceServiceInterface {
	return &RecurrenceService{
		transactionRepo: transactionRepo,
		metrics:         metrics,
		logger:          logger,
		runTimeout:      runTimeout,
		now:             time.Now,
		inFlight:        make(map[uuid.UUID]struct{}),
	}
}

// RunForUser evaluates all of a user's recurring templates once. At most one
// occurrence is created per template per run; there is no backlog catch-up
// for missed intervals.
func (s *RecurrenceService) RunForUser(ctx context.Context, userID uuid.UUID, trigger string) (*RunReport, error) {
	if !s.acquire(userID) {
		s.logger.Info("recurrence run skipped: already in progress",
			"user_id", userID,
			"trigger", trigger)
		s.metrics.IncrementCounter("recurrence_run", map[string]string{
			"trigger": trigger,
			"status":  "skipped",
		})
		return nil, ErrRunInProgress
	}
	defer s.release(userID)

	ctx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	now := s.now()
	report := &RunReport{
		UserID:    userID,
		StartedAt: now,
	}

	templates, err := s.loadTemplates(userID)
	if err != nil {
		s.metrics.IncrementCounter("recurrence_run", map[string]string{
			"trigger": trigger,
			"status":  "error",
		})
		return nil, err
	}

	created := 0
	for i := range templates {
		template := &templates[i]

		if err := ctx.Err(); err != nil {
			s.logger.Warn("recurrence run aborted",
				"user_id", userID,
				"error", err,
				"evaluated", len(report.Outcomes),
				"remaining", len(templates)-len(report.Outcomes))
			break
		}

		outcome := s.evaluateTemplate(template, now)
		report.Outcomes = append(report.Outcomes, outcome)
		s.metrics.IncrementCounter("recurrence_outcome", map[string]string{"status": outcome.Status})

		if outcome.Status == OutcomeCreated {
			created++
		}
		if outcome.Status == OutcomeFailed {
			// Per-item failures don't abort the run; the rest of the
			// templates still get their chance.
			s.logger.Error("failed to materialize recurring transaction",
				"user_id", userID,
				"transaction_id", outcome.TransactionID,
				"error", outcome.Err)
		}
	}

	report.ActiveTemplates = len(templates)
	if created > 0 {
		// Re-read after creation so the report reflects the stored rows
		// rather than a locally patched snapshot.
		refreshed, err := s.loadTemplates(userID)
		if err != nil {
			s.logger.Warn("failed to resync recurring transactions",
				"user_id", userID,
				"error", err)
		} else {
			report.ActiveTemplates = len(refreshed)
		}
	}

	report.FinishedAt = s.now()

	s.metrics.IncrementCounter("recurrence_run", map[string]string{
		"trigger": trigger,
		"status":  "completed",
	})
	s.metrics.RecordProcessingTime("recurrence_run", report.FinishedAt.Sub(report.StartedAt))

	s.logger.Info("recurrence run completed",
		"user_id", userID,
		"trigger", trigger,
		"created", report.Created(),
		"not_due", report.NotDue(),
		"failed", report.Failed())

	return report, nil
}

// RunAll evaluates recurring templates for every user that has any. Used by
// the background scheduler; per-user guard collisions are skipped silently.
func (s *RecurrenceService) RunAll(ctx context.Context, trigger string) error {
	userIDs, err := s.transactionRepo.ListUserIDsWithRecurring()
	if err != nil {
		return fmt.Errorf("failed to list users with recurring transactions: %w", err)
	}

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := s.RunForUser(ctx, userID, trigger); err != nil {
			if errors.Is(err, ErrRunInProgress) {
				continue
			}
			s.logger.Error("recurrence run failed for user",
				"user_id", userID,
				"error", err)
		}
	}

	return nil
}

func (s *RecurrenceService) acquire(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[userID]; busy {
		return false
	}
	s.inFlight[userID] = struct{}{}
	return true
}

func (s *RecurrenceService) release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, userID)
}

// loadTemplates reads the user's recurring rows once and reduces them to one
// template per recurrence identity, keeping the most recent occurrence. The
// most recent row carries the date the due rules compare against.
func (s *RecurrenceService) loadTemplates(userID uuid.UUID) ([]models.Transaction, error) {
	rows, err := s.transactionRepo.GetRecurringByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring transactions: %w", err)
	}

	latest := make(map[string]models.Transaction)
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		key := recurrenceKey(&row)
		existing, seen := latest[key]
		if !seen {
			order = append(order, key)
			latest[key] = row
			continue
		}
		if row.Date.After(existing.Date) {
			latest[key] = row
		}
	}

	templates := make([]models.Transaction, 0, len(order))
	for _, key := range order {
		templates = append(templates, latest[key])
	}
	return templates, nil
}

func recurrenceKey(t *models.Transaction) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d|%s",
		t.Description, t.Category, t.Type, t.Frequency, t.BillingDate, t.Amount.StringFixed(2))
}

func (s *RecurrenceService) evaluateTemplate(template *models.Transaction, now time.Time) RecurrenceOutcome {
	outcome := RecurrenceOutcome{
		TransactionID: template.ID,
		Description:   template.Description,
	}

	if !IsDue(template, now) {
		outcome.Status = OutcomeNotDue
		return outcome
	}

	occurrence := template.NextOccurrence(now)
	if err := s.transactionRepo.Create(occurrence); err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = OutcomeCreated
	return outcome
}

// IsDue decides whether a recurring template should produce an occurrence at
// the given instant:
//
//   - monthly: today is the billing day and the template's latest occurrence
//     is from a different calendar month
//   - weekly: at least 7 whole days have elapsed since the latest occurrence
//   - yearly: today is the billing day in the anniversary month and the
//     latest occurrence is from an earlier year
//
// A template without a recognized frequency is never due.
func IsDue(t *models.Transaction, now time.Time) bool {
	if !t.IsRecurring {
		return false
	}

	switch t.Frequency {
	case models.FrequencyMonthly:
		return now.Day() == t.BillingDate &&
			t.Date.Format(models.MonthKeyLayout) != now.Format(models.MonthKeyLayout)

	case models.FrequencyWeekly:
		days := int(now.Sub(t.Date).Hours() / 24)
		return days >= 7

	case models.FrequencyYearly:
		return now.Day() == t.BillingDate &&
			t.Date.Month() == now.Month() &&
			t.Date.Year() < now.Year()

	default:
		return false
	}
}
