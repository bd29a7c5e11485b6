package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"olivemind_backend/internal/services"
	"olivemind_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReminderHandler holds the reminder service.
type ReminderHandler struct {
	reminderService services.ReminderService
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(rs services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: rs}
}

// GetRemindersByShift handles listing every reminder for a shift.
func (h *ReminderHandler) GetRemindersByShift(c *gin.Context) {
	shiftID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid shift ID format.", err.Error()))
		return
	}

	reminders, err := h.reminderService.GetRemindersByShift(shiftID)
	if err != nil {
		utils.LogError(err, "GetRemindersByShift: Error from reminderService.GetRemindersByShift")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch reminders.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reminders})
}

// GetRemindersByWorker handles listing every reminder scheduled for a worker.
func (h *ReminderHandler) GetRemindersByWorker(c *gin.Context) {
	workerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid worker ID format.", err.Error()))
		return
	}

	reminders, err := h.reminderService.GetRemindersByWorker(workerID)
	if err != nil {
		utils.LogError(err, "GetRemindersByWorker: Error from reminderService.GetRemindersByWorker")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch reminders.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reminders})
}

// MarkReminderSent handles manually marking a reminder as delivered, for the
// cases where the operations team sends the message by hand.
func (h *ReminderHandler) MarkReminderSent(c *gin.Context) {
	reminderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid reminder ID format.", err.Error()))
		return
	}

	reminder, err := h.reminderService.MarkReminderSent(reminderID)
	if err != nil {
		utils.LogError(err, "MarkReminderSent: Error from reminderService.MarkReminderSent")
		if errors.Is(err, services.ErrReminderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to mark reminder as sent.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, reminder)
}
