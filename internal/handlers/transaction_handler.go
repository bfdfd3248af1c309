package handlers

import (
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction CRUD endpoints
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions returns all transactions for the authenticated user
// @Summary List transactions
// @Description Retrieve all transactions for the authenticated user, newest first
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ListTransactionsResponse "Transactions newest first"
// @Failure 401 {object} errors.ErrorResponse "AUTH_004 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactions, err := h.transactionService.List(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	response := dto.ListTransactionsResponse{
		Transactions: convertToTransactionResponses(transactions),
		Total:        len(transactions),
	}

	return c.JSON(http.StatusOK, response)
}

// GetTransaction returns a single transaction owned by the authenticated user
// @Summary Get transaction by ID
// @Description Retrieve one transaction; transactions belonging to other users are reported as not found
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} dto.TransactionResponse "Transaction details"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_002 - Invalid transaction ID format"
// @Failure 401 {object} errors.ErrorResponse "AUTH_004 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Transaction ID must be a valid UUID"))
	}

	transaction, err := h.transactionService.Get(userID, transactionID)
	if err != nil {
		if err == services.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	response := services.ToTransactionResponse(transaction)
	return c.JSON(http.StatusOK, response)
}

// CreateTransaction creates a new transaction for the authenticated user
// @Summary Create transaction
// @Description Record a new income, expense, or savings transaction, optionally recurring
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse "Transaction created"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or TRANSACTION_002 - Invalid input"
// @Failure 401 {object} errors.ErrorResponse "AUTH_004 - Missing or invalid authentication"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_003 or TRANSACTION_004 - Invalid type or recurrence"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateTransactionRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.Create(userID, &req)
	if err != nil {
		return sendTransactionError(c, err)
	}

	response := services.ToTransactionResponse(transaction)
	return c.JSON(http.StatusCreated, response)
}

// UpdateTransaction replaces a transaction owned by the authenticated user
// @Summary Update transaction
// @Description Replace the fields of an existing transaction; the ID and creation time are preserved
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Param request body dto.UpdateTransactionRequest true "New transaction state"
// @Success 200 {object} dto.TransactionResponse "Transaction updated"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or TRANSACTION_002 - Invalid input"
// @Failure 401 {object} errors.ErrorResponse "AUTH_004 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Transaction ID must be a valid UUID"))
	}

	var req dto.UpdateTransactionRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	transaction, err := h.transactionService.Update(userID, transactionID, &req)
	if err != nil {
		return sendTransactionError(c, err)
	}

	response := services.ToTransactionResponse(transaction)
	return c.JSON(http.StatusOK, response)
}

// DeleteTransaction removes a transaction owned by the authenticated user
// @Summary Delete transaction
// @Description Permanently delete one of the authenticated user's transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param id path string true "Transaction ID (UUID)"
// @Success 200 {object} SuccessResponse{message=string} "Transaction deleted"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_002 - Invalid transaction ID format"
// @Failure 401 {object} errors.ErrorResponse "AUTH_004 - Missing or invalid authentication"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Transaction ID must be a valid UUID"))
	}

	if err := h.transactionService.Delete(userID, transactionID); err != nil {
		if err == services.ErrTransactionNotFound {
			return SendError(c, errors.TransactionNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Transaction deleted successfully",
	})
}

// sendTransactionError maps service errors from create/update to API error codes
func sendTransactionError(c echo.Context, err error) error {
	switch err {
	case services.ErrTransactionNotFound:
		return SendError(c, errors.TransactionNotFound)
	case services.ErrInvalidAmount:
		return SendError(c, errors.TransactionInvalidAmount)
	case services.ErrInvalidDate:
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("date must be YYYY-MM-DD or RFC3339"))
	case models.ErrInvalidTransactionType:
		return SendError(c, errors.TransactionInvalidType)
	case models.ErrInvalidFrequency, models.ErrInvalidBillingDate, models.ErrRecurrenceMismatch:
		return SendError(c, errors.TransactionInvalidRecurrence, errors.WithDetails(err.Error()))
	default:
		return SendSystemError(c, err)
	}
}

func convertToTransactionResponses(transactions []models.Transaction) []dto.TransactionResponse {
	result := make([]dto.TransactionResponse, 0, len(transactions))

	for i := range transactions {
		result = append(result, services.ToTransactionResponse(&transactions[i]))
	}

	return result
}
