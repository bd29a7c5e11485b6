package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"olivemind_backend/internal/services"
	"olivemind_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InvitationHandler holds the invitation service.
type InvitationHandler struct {
	invitationService services.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(is services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: is}
}

// SendInvitations handles inviting a batch of workers to a shift.
func (h *InvitationHandler) SendInvitations(c *gin.Context) {
	shiftID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid shift ID format.", err.Error()))
		return
	}

	var req services.SendInvitationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SendInvitations: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.invitationService.SendInvitations(shiftID, req)
	if err != nil {
		utils.LogError(err, "SendInvitations: Error from invitationService.SendInvitations")
		if errors.Is(err, services.ErrShiftForInvitationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to send invitations.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RespondToInvitation handles a worker's accept or decline decision.
func (h *InvitationHandler) RespondToInvitation(c *gin.Context) {
	invitationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid invitation ID format.", err.Error()))
		return
	}

	var req services.RespondToInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RespondToInvitation: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	invitation, err := h.invitationService.RespondToInvitation(invitationID, req)
	if err != nil {
		utils.LogError(err, "RespondToInvitation: Error from invitationService.RespondToInvitation")
		if errors.Is(err, services.ErrInvitationExpired) {
			// The invitation was relabeled expired because the shift filled up
			// before this response arrived.
			c.JSON(http.StatusConflict, gin.H{
				"error":      gin.H{"code": utils.ErrCodeConflict, "message": err.Error()},
				"invitation": invitation,
			})
			return
		}
		if errors.Is(err, services.ErrInvitationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrInvitationAlreadyResponded) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrInvalidDecision) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to respond to invitation.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, invitation)
}

// GetInvitationByID handles fetching a single invitation.
func (h *InvitationHandler) GetInvitationByID(c *gin.Context) {
	invitationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid invitation ID format.", err.Error()))
		return
	}

	invitation, err := h.invitationService.GetInvitationByID(invitationID)
	if err != nil {
		utils.LogError(err, "GetInvitationByID: Error from invitationService.GetInvitationByID")
		if errors.Is(err, services.ErrInvitationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch invitation.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, invitation)
}

// GetInvitationsByShift handles listing every invitation for a shift.
func (h *InvitationHandler) GetInvitationsByShift(c *gin.Context) {
	shiftID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid shift ID format.", err.Error()))
		return
	}

	invitations, err := h.invitationService.GetInvitationsByShift(shiftID)
	if err != nil {
		utils.LogError(err, "GetInvitationsByShift: Error from invitationService.GetInvitationsByShift")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch invitations.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invitations})
}

// GetInvitationsByWorker handles listing every invitation sent to a worker.
func (h *InvitationHandler) GetInvitationsByWorker(c *gin.Context) {
	workerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid worker ID format.", err.Error()))
		return
	}

	invitations, err := h.invitationService.GetInvitationsByWorker(workerID)
	if err != nil {
		utils.LogError(err, "GetInvitationsByWorker: Error from invitationService.GetInvitationsByWorker")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch invitations.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invitations})
}
