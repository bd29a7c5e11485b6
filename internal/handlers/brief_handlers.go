package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"olivemind_backend/internal/services"
	"olivemind_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BriefHandler holds the work brief service.
type BriefHandler struct {
	briefService services.BriefService
}

// NewBriefHandler creates a new BriefHandler.
func NewBriefHandler(bs services.BriefService) *BriefHandler {
	return &BriefHandler{briefService: bs}
}

// CreateBrief handles the creation of a new work brief.
func (h *BriefHandler) CreateBrief(c *gin.Context) {
	var req services.CreateBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBrief: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	brief, err := h.briefService.CreateBrief(req)
	if err != nil {
		utils.LogError(err, "CreateBrief: Error from briefService.CreateBrief")
		if errors.Is(err, services.ErrBriefValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrBriefAlreadyExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrShiftForBriefNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create work brief.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, brief)
}

// GetBriefs handles listing all work briefs.
func (h *BriefHandler) GetBriefs(c *gin.Context) {
	briefs, err := h.briefService.GetBriefs()
	if err != nil {
		utils.LogError(err, "GetBriefs: Error from briefService.GetBriefs")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch work briefs.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": briefs})
}

// GetBriefByID handles fetching a single work brief.
func (h *BriefHandler) GetBriefByID(c *gin.Context) {
	briefID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid brief ID format.", err.Error()))
		return
	}

	brief, err := h.briefService.GetBriefByID(briefID)
	if err != nil {
		utils.LogError(err, "GetBriefByID: Error from briefService.GetBriefByID")
		if errors.Is(err, services.ErrBriefNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch work brief.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, brief)
}

// GetBriefByShift handles fetching the work brief attached to a shift.
func (h *BriefHandler) GetBriefByShift(c *gin.Context) {
	shiftID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid shift ID format.", err.Error()))
		return
	}

	brief, err := h.briefService.GetBriefByShift(shiftID)
	if err != nil {
		utils.LogError(err, "GetBriefByShift: Error from briefService.GetBriefByShift")
		if errors.Is(err, services.ErrBriefNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch work brief.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, brief)
}

// UpdateBrief handles updating a work brief.
func (h *BriefHandler) UpdateBrief(c *gin.Context) {
	briefID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid brief ID format.", err.Error()))
		return
	}

	var req services.UpdateBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateBrief: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	brief, err := h.briefService.UpdateBrief(briefID, req)
	if err != nil {
		utils.LogError(err, "UpdateBrief: Error from briefService.UpdateBrief")
		if errors.Is(err, services.ErrBriefNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrBriefValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update work brief.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, brief)
}

// DeleteBrief handles deleting a work brief.
func (h *BriefHandler) DeleteBrief(c *gin.Context) {
	briefID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid brief ID format.", err.Error()))
		return
	}

	if err := h.briefService.DeleteBrief(briefID); err != nil {
		utils.LogError(err, "DeleteBrief: Error from briefService.DeleteBrief")
		if errors.Is(err, services.ErrBriefNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete work brief.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work brief deleted successfully"})
}
