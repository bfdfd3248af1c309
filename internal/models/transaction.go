package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
	TransactionTypeSavings = "savings"

	FrequencyMonthly = "monthly"
	FrequencyWeekly  = "weekly"
	FrequencyYearly  = "yearly"

	// MonthKeyLayout is the calendar-month grouping key (YYYY-MM).
	MonthKeyLayout = "2006-01"
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidAmount          = errors.New("transaction amount must be positive")
	ErrInvalidFrequency       = errors.New("invalid recurrence frequency")
	ErrInvalidBillingDate     = errors.New("billing date must be between 1 and 31")
	ErrRecurrenceMismatch     = errors.New("frequency and billing date are only valid on recurring transactions")
	ErrMissingDate            = errors.New("transaction date is required")
)

// Transaction is a single dated financial record of type income, expense, or
// savings. Recurring transactions additionally carry a frequency and, for
// monthly/yearly cadences, a billing day-of-month; each generated occurrence
// is an independent row with the recurrence metadata copied forward.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Type        string          `gorm:"type:varchar(20);not null;index" json:"type"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	IsRecurring bool            `gorm:"not null;default:false;index" json:"is_recurring"`
	Frequency   string          `gorm:"type:varchar(20)" json:"frequency,omitempty"`
	BillingDate int             `gorm:"default:0" json:"billing_date,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Validate checks the transaction fields, including the recurrence invariant:
// frequency (and billing date for monthly/yearly) is set iff IsRecurring.
// Malformed records are rejected at insert time rather than silently
// miscategorized later.
func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Description == "" {
		return errors.New("transaction description is required")
	}

	if t.Date.IsZero() {
		return ErrMissingDate
	}

	return t.validateRecurrence()
}

func (t *Transaction) validateRecurrence() error {
	if !t.IsRecurring {
		if t.Frequency != "" || t.BillingDate != 0 {
			return ErrRecurrenceMismatch
		}
		return nil
	}

	if !IsValidFrequency(t.Frequency) {
		return ErrInvalidFrequency
	}

	if t.RequiresBillingDate() {
		if t.BillingDate < 1 || t.BillingDate > 31 {
			return ErrInvalidBillingDate
		}
	} else if t.BillingDate != 0 {
		return fmt.Errorf("billing date is not used for %s recurrence", t.Frequency)
	}

	return nil
}

// RequiresBillingDate reports whether the frequency is anchored to a
// day-of-month. Weekly cadence slides from the last occurrence instead.
func (t *Transaction) RequiresBillingDate() bool {
	return t.Frequency == FrequencyMonthly || t.Frequency == FrequencyYearly
}

// MonthKey returns the YYYY-MM key of the transaction's effective date.
func (t *Transaction) MonthKey() string {
	return t.Date.Format(MonthKeyLayout)
}

// NextOccurrence materializes a fresh transaction from a recurring template.
// All classification and recurrence metadata is copied forward; the new row
// gets its own identity and the given effective date.
func (t *Transaction) NextOccurrence(now time.Time) *Transaction {
	return &Transaction{
		UserID:      t.UserID,
		Amount:      t.Amount,
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
		Date:        now,
		IsRecurring: true,
		Frequency:   t.Frequency,
		BillingDate: t.BillingDate,
	}
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeSavings:
		return true
	default:
		return false
	}
}

// IsValidFrequency checks if the recurrence frequency is valid
func IsValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyMonthly, FrequencyWeekly, FrequencyYearly:
		return true
	default:
		return false
	}
}
