package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("amount must be a positive decimal")
	ErrInvalidDate         = errors.New("date must be YYYY-MM-DD or RFC3339")
)

const dateOnlyLayout = "2006-01-02"

// TransactionService handles transaction business logic. Every operation is
// scoped to the owning user; a transaction belonging to someone else behaves
// as if it does not exist.
type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &TransactionService{
		transactionRepo: transactionRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

// Create records a new transaction for the user
func (s *TransactionService) Create(userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	transaction, err := s.buildTransaction(userID, req.Amount, req.Description, req.Category, req.Type, req.Date, req.IsRecurring, req.Frequency, req.BillingDate)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Create(transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.metrics.IncrementCounter("transaction_operation", map[string]string{
		"operation": "create",
		"type":      transaction.Type,
	})
	s.logger.Info("transaction created",
		"transaction_id", transaction.ID,
		"user_id", userID,
		"type", transaction.Type,
		"recurring", transaction.IsRecurring)

	return transaction, nil
}

// List returns all of the user's transactions, most recent first
func (s *TransactionService) List(userID uuid.UUID) ([]models.Transaction, error) {
	transactions, err := s.transactionRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// Get returns a single transaction owned by the user
func (s *TransactionService) Get(userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	// Ownership check: foreign transactions are indistinguishable from missing ones
	if transaction.UserID != userID {
		return nil, ErrTransactionNotFound
	}

	return transaction, nil
}

// Update replaces the state of a transaction owned by the user
func (s *TransactionService) Update(userID, transactionID uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error) {
	existing, err := s.Get(userID, transactionID)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildTransaction(userID, req.Amount, req.Description, req.Category, req.Type, req.Date, req.IsRecurring, req.Frequency, req.BillingDate)
	if err != nil {
		return nil, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt

	if err := s.transactionRepo.Update(updated); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.metrics.IncrementCounter("transaction_operation", map[string]string{
		"operation": "update",
		"type":      updated.Type,
	})
	s.logger.Info("transaction updated",
		"transaction_id", updated.ID,
		"user_id", userID)

	return updated, nil
}

// Delete removes a transaction owned by the user
func (s *TransactionService) Delete(userID, transactionID uuid.UUID) error {
	if err := s.transactionRepo.Delete(transactionID, userID); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.metrics.IncrementCounter("transaction_operation", map[string]string{
		"operation": "delete",
	})
	s.logger.Info("transaction deleted",
		"transaction_id", transactionID,
		"user_id", userID)

	return nil
}

func (s *TransactionService) buildTransaction(userID uuid.UUID, amount, description, category, txType, date string, isRecurring bool, frequency string, billingDate int) (*models.Transaction, error) {
	amt, err := decimal.NewFromString(amount)
	if err != nil || amt.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	parsedDate, err := parseTransactionDate(date)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		Amount:      amt,
		Description: description,
		Category:    category,
		Type:        txType,
		Date:        parsedDate,
		IsRecurring: isRecurring,
	}

	if isRecurring {
		transaction.Frequency = frequency
		transaction.BillingDate = billingDate
	}

	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	return transaction, nil
}

func parseTransactionDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// ToTransactionResponse maps a transaction model to its API representation
func ToTransactionResponse(t *models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
		Date:        t.Date,
		IsRecurring: t.IsRecurring,
		Frequency:   t.Frequency,
		BillingDate: t.BillingDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
