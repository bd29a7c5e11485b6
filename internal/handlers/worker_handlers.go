package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"olivemind_backend/internal/services"
	"olivemind_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// WorkerHandler holds the worker service.
type WorkerHandler struct {
	workerService services.WorkerService
}

// NewWorkerHandler creates a new WorkerHandler.
func NewWorkerHandler(ws services.WorkerService) *WorkerHandler {
	return &WorkerHandler{workerService: ws}
}

// CreateWorker handles registering a new promotional worker.
func (h *WorkerHandler) CreateWorker(c *gin.Context) {
	var req services.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateWorker: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	worker, err := h.workerService.CreateWorker(req)
	if err != nil {
		utils.LogError(err, "CreateWorker: Error from workerService.CreateWorker")
		if errors.Is(err, services.ErrWorkerDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create worker.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, worker)
}

// GetWorkers handles listing all workers.
func (h *WorkerHandler) GetWorkers(c *gin.Context) {
	workers, err := h.workerService.GetAllWorkers()
	if err != nil {
		utils.LogError(err, "GetWorkers: Error from workerService.GetAllWorkers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch workers.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": workers})
}

// GetWorkerByID handles fetching a single worker.
func (h *WorkerHandler) GetWorkerByID(c *gin.Context) {
	workerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid worker ID format.", err.Error()))
		return
	}

	worker, err := h.workerService.GetWorkerByID(workerID)
	if err != nil {
		utils.LogError(err, "GetWorkerByID: Error from workerService.GetWorkerByID")
		if errors.Is(err, services.ErrWorkerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch worker.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, worker)
}

// UpdateWorker handles updating a worker's details.
func (h *WorkerHandler) UpdateWorker(c *gin.Context) {
	workerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid worker ID format.", err.Error()))
		return
	}

	var req services.UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateWorker: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	worker, err := h.workerService.UpdateWorker(workerID, req)
	if err != nil {
		utils.LogError(err, "UpdateWorker: Error from workerService.UpdateWorker")
		if errors.Is(err, services.ErrWorkerNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrWorkerDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update worker.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, worker)
}
