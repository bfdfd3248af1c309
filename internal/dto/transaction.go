package dto

import (
	"time"

	"github.com/google/uuid"
)

// Transaction Request DTOs

// CreateTransactionRequest contains the data for a new transaction.
// Frequency and BillingDate are only consulted when IsRecurring is true.
type CreateTransactionRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,min=1,max=255"`
	Category    string `json:"category" validate:"required,min=1,max=100"`
	Type        string `json:"type" validate:"required,transaction_type"`
	Date        string `json:"date" validate:"required"` // YYYY-MM-DD or RFC3339
	IsRecurring bool   `json:"isRecurring"`
	Frequency   string `json:"frequency" validate:"omitempty,frequency"`
	BillingDate int    `json:"billingDate" validate:"omitempty,min=1,max=31"`
}

// UpdateTransactionRequest contains the full replacement state for a transaction
type UpdateTransactionRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required,min=1,max=255"`
	Category    string `json:"category" validate:"required,min=1,max=100"`
	Type        string `json:"type" validate:"required,transaction_type"`
	Date        string `json:"date" validate:"required"`
	IsRecurring bool   `json:"isRecurring"`
	Frequency   string `json:"frequency" validate:"omitempty,frequency"`
	BillingDate int    `json:"billingDate" validate:"omitempty,min=1,max=31"`
}

// Transaction Response DTOs

// TransactionResponse represents a single transaction
type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	IsRecurring bool      `json:"isRecurring"`
	Frequency   string    `json:"frequency,omitempty"`
	BillingDate int       `json:"billingDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListTransactionsResponse represents the response for listing transactions
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

// SummaryResponse contains the aggregate totals for a period
type SummaryResponse struct {
	Period        string `json:"period"`
	TotalIncome   string `json:"totalIncome"`
	TotalExpenses string `json:"totalExpenses"`
	TotalSavings  string `json:"totalSavings"`
	Balance       string `json:"balance"`
}

// MonthlyDataPointResponse is one month of the trailing series
type MonthlyDataPointResponse struct {
	Date     string `json:"date"` // YYYY-MM
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Savings  string `json:"savings"`
}

// MonthlySeriesResponse contains up to twelve monthly data points, oldest first
type MonthlySeriesResponse struct {
	Months []MonthlyDataPointResponse `json:"months"`
}

// RecurrenceOutcomeResponse is the per-template outcome of an evaluation run
type RecurrenceOutcomeResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
	Description   string    `json:"description"`
	Status        string    `json:"status"` // created, not_due, failed
	Error         string    `json:"error,omitempty"`
}

// RecurrenceRunResponse summarizes a recurrence evaluation run
type RecurrenceRunResponse struct {
	StartedAt       time.Time                   `json:"startedAt"`
	FinishedAt      time.Time                   `json:"finishedAt"`
	Created         int                         `json:"created"`
	NotDue          int                         `json:"notDue"`
	Failed          int                         `json:"failed"`
	ActiveTemplates int                         `json:"activeTemplates"`
	Outcomes        []RecurrenceOutcomeResponse `json:"outcomes"`
}
