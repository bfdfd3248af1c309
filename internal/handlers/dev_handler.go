package handlers

import (
	"net/http"
	"time"

	"fintrack/internal/repositories"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	transactionRepo repositories.TransactionRepositoryInterface
	generator       services.TransactionGeneratorInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(transactionRepo repositories.TransactionRepositoryInterface) *DevHandler {
	return &DevHandler{
		transactionRepo: transactionRepo,
		generator:       services.NewTransactionGenerator(),
	}
}

// GenerateSampleData seeds realistic transaction history for the caller
//
// Method: POST /api/v1/dev/generate-sample-data
// Authentication: Required
// Environment: Development only
//
// Success Response: 200 OK
//   - message: Success message
//   - transactions_created: Number of transactions created
//
// Error Responses:
//   - 401: Unauthorized
//   - 500: Internal server error
func (h *DevHandler) GenerateSampleData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	transactions := h.generator.GenerateSampleTransactions(userID, time.Now())

	created := 0
	for _, txn := range transactions {
		if err := h.transactionRepo.Create(txn); err != nil {
			continue
		}
		created++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":              "sample data generated successfully",
		"transactions_created": created,
		"user_id":              userID,
	})
}
