package repositories

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionRepository handles database operations for transactions
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &TransactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database
func (r *TransactionRepository) Create(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction

	if err := r.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}

	return &transaction, nil
}

// GetByUserID retrieves all transactions for a user, most recent first
func (r *TransactionRepository) GetByUserID(userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction

	err := r.db.Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user: %w", err)
	}

	return transactions, nil
}

// GetByUserIDAndDateRange retrieves a user's transactions within [startDate, endDate)
func (r *TransactionRepository) GetByUserIDAndDateRange(userID uuid.UUID, startDate, endDate time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction

	err := r.db.Where("user_id = ? AND date >= ? AND date < ?", userID, startDate, endDate).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}

	return transactions, nil
}

// Update updates a transaction in the database
func (r *TransactionRepository) Update(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := r.db.Save(transaction).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return nil
}

// Delete removes a transaction owned by the given user
func (r *TransactionRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

// GetRecurringByUserID retrieves all recurring transaction templates for a user
func (r *TransactionRepository) GetRecurringByUserID(userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction

	err := r.db.Where("user_id = ? AND is_recurring = ?", userID, true).
		Order("date ASC").
		Find(&transactions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get recurring transactions for user: %w", err)
	}

	return transactions, nil
}

// ListUserIDsWithRecurring returns the distinct set of users that own at least
// one recurring transaction
func (r *TransactionRepository) ListUserIDsWithRecurring() ([]uuid.UUID, error) {
	var userIDs []uuid.UUID

	err := r.db.Model(&models.Transaction{}).
		Where("is_recurring = ?", true).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list users with recurring transactions: %w", err)
	}

	return userIDs, nil
}
