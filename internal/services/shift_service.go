package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"olivemind_backend/internal/models"
	"olivemind_backend/internal/repositories"
	"olivemind_backend/pkg/utils"
)

// --- Custom Service Errors for Shifts ---
var (
	ErrShiftNotFound          = errors.New("shift not found")
	ErrShiftFull              = errors.New("shift is already fully staffed")
	ErrShiftValidation        = errors.New("shift data validation error")
	ErrShiftTimeFormat        = errors.New("invalid time format for shift, please use RFC3339 like 2006-01-02T15:04:05Z")
	ErrWorkerForShiftNotFound = errors.New("worker specified for shift assignment not found")
)

// --- Shift DTOs ---
type CreateShiftRequest struct {
	Title               string   `json:"title" binding:"required"`
	Description         *string  `json:"description"`
	BrandName           string   `json:"brand_name" binding:"required"`
	Location            string   `json:"location" binding:"required"`
	Area                *string  `json:"area"`
	StartDatetime       string   `json:"start_datetime" binding:"required"`
	EndDatetime         string   `json:"end_datetime" binding:"required"`
	RequiredWorkers     int      `json:"required_workers" binding:"required"`
	HourlyRate          float64  `json:"hourly_rate"`
	AdditionalFees      float64  `json:"additional_fees"`
	CallTimeMinutes     *int     `json:"call_time_minutes"`
	DressCode           *string  `json:"dress_code"`
	PhotoRequirements   *string  `json:"photo_requirements"`
	PromotionDetails    *string  `json:"promotion_details"`
	SpecialInstructions *string  `json:"special_instructions"`
	Status              *string  `json:"status"`
	CreatedBy           *string  `json:"created_by"`
}

type UpdateShiftRequest struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	BrandName           *string  `json:"brand_name"`
	Location            *string  `json:"location"`
	Area                *string  `json:"area"`
	StartDatetime       *string  `json:"start_datetime"`
	EndDatetime         *string  `json:"end_datetime"`
	RequiredWorkers     *int     `json:"required_workers"`
	HourlyRate          *float64 `json:"hourly_rate"`
	AdditionalFees      *float64 `json:"additional_fees"`
	CallTimeMinutes     *int     `json:"call_time_minutes"`
	DressCode           *string  `json:"dress_code"`
	PhotoRequirements   *string  `json:"photo_requirements"`
	PromotionDetails    *string  `json:"promotion_details"`
	SpecialInstructions *string  `json:"special_instructions"`
	Status              *string  `json:"status"`
}

// --- ShiftService Interface ---
type ShiftService interface {
	CreateShift(req CreateShiftRequest) (*models.Shift, error)
	GetShiftByID(shiftID int64) (*models.Shift, error)
	GetShifts(status, area, dateFromStr, dateToStr *string, page, pageSize int) ([]models.Shift, int, error)
	UpdateShift(shiftID int64, req UpdateShiftRequest) (*models.Shift, error)
	DeleteShift(shiftID int64) error
	AssignWorkerToShift(shiftID, workerID int64) (*models.Shift, error)
}

// --- shiftService Implementation ---
type shiftService struct {
	shiftRepo   repositories.ShiftRepository
	workerRepo  repositories.WorkerRepository
	reminderSvc ReminderService
}

// NewShiftService creates a new instance of ShiftService.
func NewShiftService(sr repositories.ShiftRepository, wr repositories.WorkerRepository, rs ReminderService) ShiftService {
	return &shiftService{
		shiftRepo:   sr,
		workerRepo:  wr,
		reminderSvc: rs,
	}
}

func parseDateTime(dateTimeStr string, errorToReturn error) (time.Time, error) {
	parsedTime, err := time.Parse(time.RFC3339, dateTimeStr)
	if err != nil {
		// Accept local time strings without a zone offset as well
		parsedTime, err = time.Parse("2006-01-02T15:04:05", dateTimeStr)
		if err != nil {
			return time.Time{}, errorToReturn
		}
	}
	return parsedTime, nil
}

func (s *shiftService) CreateShift(req CreateShiftRequest) (*models.Shift, error) {
	startTime, err := parseDateTime(req.StartDatetime, ErrShiftTimeFormat)
	if err != nil {
		return nil, err
	}
	endTime, err := parseDateTime(req.EndDatetime, ErrShiftTimeFormat)
	if err != nil {
		return nil, err
	}
	if !endTime.After(startTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrShiftValidation)
	}
	if req.RequiredWorkers < 1 {
		return nil, fmt.Errorf("%w: required_workers must be at least 1", ErrShiftValidation)
	}

	status := models.ShiftStatusDraft
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status = models.ShiftStatus(*req.Status)
		if !models.IsValidShiftStatus(status) {
			return nil, fmt.Errorf("%w: invalid status '%s'", ErrShiftValidation, *req.Status)
		}
	}

	callTime := 30
	if req.CallTimeMinutes != nil {
		if *req.CallTimeMinutes < 0 {
			return nil, fmt.Errorf("%w: call_time_minutes cannot be negative", ErrShiftValidation)
		}
		callTime = *req.CallTimeMinutes
	}

	shift := &models.Shift{
		Title:               req.Title,
		Description:         req.Description,
		BrandName:           req.BrandName,
		Location:            req.Location,
		Area:                req.Area,
		StartDatetime:       startTime,
		EndDatetime:         endTime,
		RequiredWorkers:     req.RequiredWorkers,
		AssignedWorkers:     []int64{},
		InvitedWorkers:      []int64{},
		HourlyRate:          req.HourlyRate,
		AdditionalFees:      req.AdditionalFees,
		CallTimeMinutes:     callTime,
		DressCode:           req.DressCode,
		PhotoRequirements:   req.PhotoRequirements,
		PromotionDetails:    req.PromotionDetails,
		SpecialInstructions: req.SpecialInstructions,
		Status:              status,
		CreatedBy:           req.CreatedBy,
	}

	createdShift, err := s.shiftRepo.CreateShift(shift)
	if err != nil {
		return nil, fmt.Errorf("failed to create shift in repository: %w", err)
	}
	return createdShift, nil
}

func (s *shiftService) GetShiftByID(shiftID int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift by ID: %w", err)
	}
	return shift, nil
}

func (s *shiftService) GetShifts(status, area, dateFromStr, dateToStr *string, page, pageSize int) ([]models.Shift, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	filters := repositories.ShiftFilters{
		Status:   status,
		Area:     area,
		Page:     page,
		PageSize: pageSize,
	}
	if status != nil && strings.TrimSpace(*status) != "" && !models.IsValidShiftStatus(models.ShiftStatus(*status)) {
		return nil, 0, fmt.Errorf("%w: invalid status filter '%s'", ErrShiftValidation, *status)
	}
	if dateFromStr != nil && strings.TrimSpace(*dateFromStr) != "" {
		dateFrom, err := parseDateTime(*dateFromStr, ErrShiftTimeFormat)
		if err != nil {
			return nil, 0, err
		}
		filters.DateFrom = &dateFrom
	}
	if dateToStr != nil && strings.TrimSpace(*dateToStr) != "" {
		dateTo, err := parseDateTime(*dateToStr, ErrShiftTimeFormat)
		if err != nil {
			return nil, 0, err
		}
		filters.DateTo = &dateTo
	}

	shifts, totalCount, err := s.shiftRepo.GetShifts(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get shifts: %w", err)
	}
	return shifts, totalCount, nil
}

func (s *shiftService) UpdateShift(shiftID int64, req UpdateShiftRequest) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift for update: %w", err)
	}

	if req.Title != nil {
		shift.Title = *req.Title
	}
	if req.Description != nil {
		shift.Description = req.Description
	}
	if req.BrandName != nil {
		shift.BrandName = *req.BrandName
	}
	if req.Location != nil {
		shift.Location = *req.Location
	}
	if req.Area != nil {
		shift.Area = req.Area
	}
	if req.StartDatetime != nil {
		startTime, err := parseDateTime(*req.StartDatetime, ErrShiftTimeFormat)
		if err != nil {
			return nil, err
		}
		shift.StartDatetime = startTime
	}
	if req.EndDatetime != nil {
		endTime, err := parseDateTime(*req.EndDatetime, ErrShiftTimeFormat)
		if err != nil {
			return nil, err
		}
		shift.EndDatetime = endTime
	}
	if !shift.EndDatetime.After(shift.StartDatetime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrShiftValidation)
	}
	if req.RequiredWorkers != nil {
		if *req.RequiredWorkers < 1 {
			return nil, fmt.Errorf("%w: required_workers must be at least 1", ErrShiftValidation)
		}
		if *req.RequiredWorkers < len(shift.AssignedWorkers) {
			return nil, fmt.Errorf("%w: required_workers cannot drop below the %d workers already assigned", ErrShiftValidation, len(shift.AssignedWorkers))
		}
		shift.RequiredWorkers = *req.RequiredWorkers
	}
	if req.HourlyRate != nil {
		shift.HourlyRate = *req.HourlyRate
	}
	if req.AdditionalFees != nil {
		shift.AdditionalFees = *req.AdditionalFees
	}
	if req.CallTimeMinutes != nil {
		if *req.CallTimeMinutes < 0 {
			return nil, fmt.Errorf("%w: call_time_minutes cannot be negative", ErrShiftValidation)
		}
		shift.CallTimeMinutes = *req.CallTimeMinutes
	}
	if req.DressCode != nil {
		shift.DressCode = req.DressCode
	}
	if req.PhotoRequirements != nil {
		shift.PhotoRequirements = req.PhotoRequirements
	}
	if req.PromotionDetails != nil {
		shift.PromotionDetails = req.PromotionDetails
	}
	if req.SpecialInstructions != nil {
		shift.SpecialInstructions = req.SpecialInstructions
	}
	if req.Status != nil {
		newStatus := models.ShiftStatus(*req.Status)
		if !models.IsValidShiftStatus(newStatus) {
			return nil, fmt.Errorf("%w: invalid status '%s'", ErrShiftValidation, *req.Status)
		}
		shift.Status = newStatus
	}

	updatedShift, err := s.shiftRepo.UpdateShift(shift)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}
	return updatedShift, nil
}

func (s *shiftService) DeleteShift(shiftID int64) error {
	err := s.shiftRepo.DeleteShift(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

// AssignWorkerToShift adds a worker to the shift roster. Assigning a worker
// who already holds a slot is a no-op rather than an error. Filling the last
// slot flips the shift to 'full'. Reminder scheduling afterwards is
// best-effort: a scheduling failure is logged, never surfaced, because the
// roster change has already been committed.
func (s *shiftService) AssignWorkerToShift(shiftID, workerID int64) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to get shift for assignment: %w", err)
	}

	if _, err := s.workerRepo.GetWorkerByID(workerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: worker ID %d", ErrWorkerForShiftNotFound, workerID)
		}
		return nil, fmt.Errorf("failed to validate worker for assignment: %w", err)
	}

	if !shift.HasAssignedWorker(workerID) {
		if shift.IsFull() {
			return nil, fmt.Errorf("%w: %d of %d slots taken", ErrShiftFull, len(shift.AssignedWorkers), shift.RequiredWorkers)
		}
		shift.AssignedWorkers = append(shift.AssignedWorkers, workerID)
	}
	if len(shift.AssignedWorkers) >= shift.RequiredWorkers {
		shift.Status = models.ShiftStatusFull
	}

	updatedShift, err := s.shiftRepo.UpdateShift(shift)
	if err != nil {
		return nil, fmt.Errorf("failed to persist shift assignment: %w", err)
	}

	// Reschedule for the whole roster: scheduling wipes the shift's reminders
	// first, so recreating only the new worker's would drop everyone else's.
	if err := s.reminderSvc.ScheduleRemindersForShift(updatedShift, updatedShift.AssignedWorkers); err != nil {
		utils.LogError(err, "reminder scheduling after assignment failed")
	}
	return updatedShift, nil
}
