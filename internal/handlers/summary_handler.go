package handlers

import (
	"net/http"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// SummaryHandler handles aggregation endpoints
type SummaryHandler struct {
	summaryService services.SummaryServiceInterface
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryService services.SummaryServiceInterface) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// GetSummary returns period totals and balance for the authenticated user
// @Summary Get financial summary
// @Description Aggregate income, expenses, savings, and balance for a period
// @Tags Summary
// @Security BearerAuth
// @Produce json
// @Param period query string false "Aggregation period: 'current', 'overall', or YYYY-MM" default(current)
// @Success 200 {object} dto.SummaryResponse "Period totals and balance"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_006 - Invalid period"
// @Failure 401 {object} errors.ErrorResponse "AUTH_004 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /summary [get]
func (h *SummaryHandler) GetSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	period := models.Period(c.QueryParam("period"))
	if period == "" {
		period = models.PeriodCurrent
	}

	if err := period.Validate(); err != nil {
		return SendError(c, errors.ValidationInvalidPeriod, errors.WithDetails(err.Error()))
	}

	summary, err := h.summaryService.GetSummary(userID, period)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetMonthlySeries returns the monthly series for the user
// @Summary Get monthly series
// @Description Income, expenses, and savings per calendar month, oldest first; only months with transactions appear, capped to the most recent twelve
// @Tags Summary
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MonthlySeriesResponse "Up to twelve monthly data points, oldest first"
// @Failure 401 {object} errors.ErrorResponse "AUTH_004 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /summary/monthly [get]
func (h *SummaryHandler) GetMonthlySeries(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	series, err := h.summaryService.GetMonthlySeries(userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, series)
}
