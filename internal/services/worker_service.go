package services

import (
	"errors"
	"fmt"
	"strings"

	"olivemind_backend/internal/models"
	"olivemind_backend/internal/repositories"
)

// --- Custom Service Errors for Workers ---
var (
	ErrWorkerNotFound       = errors.New("worker not found")
	ErrWorkerDataValidation = errors.New("worker data validation error")
)

// --- Worker DTOs ---
type CreateWorkerRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	PhoneNumber *string `json:"phone_number"`
	Area        *string `json:"area"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateWorkerRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Area        *string `json:"area"`
	IsActive    *bool   `json:"is_active"`
}

// --- WorkerService Interface ---
type WorkerService interface {
	CreateWorker(req CreateWorkerRequest) (*models.Worker, error)
	GetWorkerByID(workerID int64) (*models.Worker, error)
	GetAllWorkers() ([]models.Worker, error)
	UpdateWorker(workerID int64, req UpdateWorkerRequest) (*models.Worker, error)
}

// --- workerService Implementation ---
type workerService struct {
	workerRepo repositories.WorkerRepository
}

// NewWorkerService creates a new instance of WorkerService.
func NewWorkerService(wr repositories.WorkerRepository) WorkerService {
	return &workerService{workerRepo: wr}
}

func (s *workerService) CreateWorker(req CreateWorkerRequest) (*models.Worker, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("%w: full_name cannot be empty", ErrWorkerDataValidation)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	worker := &models.Worker{
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: req.PhoneNumber,
		Area:        req.Area,
		IsActive:    isActive,
	}

	createdWorker, err := s.workerRepo.CreateWorker(worker)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker in repository: %w", err)
	}
	return createdWorker, nil
}

func (s *workerService) GetWorkerByID(workerID int64) (*models.Worker, error) {
	worker, err := s.workerRepo.GetWorkerByID(workerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to get worker by ID: %w", err)
	}
	return worker, nil
}

func (s *workerService) GetAllWorkers() ([]models.Worker, error) {
	workers, err := s.workerRepo.GetAllWorkers()
	if err != nil {
		return nil, fmt.Errorf("failed to get workers: %w", err)
	}
	return workers, nil
}

func (s *workerService) UpdateWorker(workerID int64, req UpdateWorkerRequest) (*models.Worker, error) {
	worker, err := s.workerRepo.GetWorkerByID(workerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to get worker for update: %w", err)
	}

	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return nil, fmt.Errorf("%w: full_name cannot be empty", ErrWorkerDataValidation)
		}
		worker.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.PhoneNumber != nil {
		worker.PhoneNumber = req.PhoneNumber
	}
	if req.Area != nil {
		worker.Area = req.Area
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}

	updatedWorker, err := s.workerRepo.UpdateWorker(worker)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}
	return updatedWorker, nil
}
