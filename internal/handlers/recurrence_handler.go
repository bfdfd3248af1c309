package handlers

import (
	"net/http"

	"fintrack/internal/dto"
	"fintrack/internal/errors"
	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
)

// RecurrenceHandler handles manual recurrence evaluation
type RecurrenceHandler struct {
	recurrenceService services.RecurrenceServiceInterface
}

// NewRecurrenceHandler creates a new recurrence handler
func NewRecurrenceHandler(recurrenceService services.RecurrenceServiceInterface) *RecurrenceHandler {
	return &RecurrenceHandler{
		recurrenceService: recurrenceService,
	}
}

// RunRecurrence evaluates the authenticated user's recurring transactions now
// @Summary Run recurrence evaluation
// @Description Evaluate all of the user's recurring templates and create the occurrences that are due. Returns a per-template outcome report. A run already in progress for the same user yields 409.
// @Tags Recurrence
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.RecurrenceRunResponse "Evaluation report"
// @Failure 401 {object} errors.ErrorResponse "AUTH_004 - Missing or invalid authentication"
// @Failure 409 {object} errors.ErrorResponse "RECURRENCE_001 - Evaluation already in progress"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /transactions/recurring/run [post]
func (h *RecurrenceHandler) RunRecurrence(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	report, err := h.recurrenceService.RunForUser(c.Request().Context(), userID, "manual")
	if err != nil {
		if err == services.ErrRunInProgress {
			return SendError(c, errors.RecurrenceRunInProgress)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, toRecurrenceRunResponse(report))
}

func toRecurrenceRunResponse(report *services.RunReport) *dto.RecurrenceRunResponse {
	outcomes := make([]dto.RecurrenceOutcomeResponse, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		outcome := dto.RecurrenceOutcomeResponse{
			TransactionID: o.TransactionID,
			Description:   o.Description,
			Status:        o.Status,
		}
		if o.Err != nil {
			outcome.Error = o.Err.Error()
		}
		outcomes = append(outcomes, outcome)
	}

	return &dto.RecurrenceRunResponse{
		StartedAt:       report.StartedAt,
		FinishedAt:      report.FinishedAt,
		Created:         report.Created(),
		NotDue:          report.NotDue(),
		Failed:          report.Failed(),
		ActiveTemplates: report.ActiveTemplates,
		Outcomes:        outcomes,
	}
}
