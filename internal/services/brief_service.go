package services

import (
	"errors"
	"fmt"
	"strings"

	"olivemind_backend/internal/models"
	"olivemind_backend/internal/repositories"
)

// --- Custom Service Errors for Work Briefs ---
var (
	ErrBriefNotFound         = errors.New("work brief not found")
	ErrBriefValidation       = errors.New("work brief validation error")
	ErrBriefAlreadyExists    = errors.New("shift already has a work brief")
	ErrShiftForBriefNotFound = errors.New("shift specified for work brief not found")
)

// --- Work Brief DTOs ---
type CreateBriefRequest struct {
	ShiftID          int64                 `json:"shift_id" binding:"required"`
	Title            string                `json:"title" binding:"required"`
	BrandName        string                `json:"brand_name" binding:"required"`
	Description      *string               `json:"description"`
	TrainingVideoURL *string               `json:"training_video_url"`
	VideoDuration    *int                  `json:"video_duration"`
	VideoDescription *string               `json:"video_description"`
	BrandInformation *string               `json:"brand_information"`
	TestQuestions    []models.TestQuestion `json:"test_questions"`
	PassingScore     *int                  `json:"passing_score"`
	MaxAttempts      *int                  `json:"max_attempts"`
	Status           *string               `json:"status"`
}

type UpdateBriefRequest struct {
	Title            *string               `json:"title"`
	BrandName        *string               `json:"brand_name"`
	Description      *string               `json:"description"`
	TrainingVideoURL *string               `json:"training_video_url"`
	VideoDuration    *int                  `json:"video_duration"`
	VideoDescription *string               `json:"video_description"`
	BrandInformation *string               `json:"brand_information"`
	TestQuestions    []models.TestQuestion `json:"test_questions"`
	PassingScore     *int                  `json:"passing_score"`
	MaxAttempts      *int                  `json:"max_attempts"`
	Status           *string               `json:"status"`
}

// --- BriefService Interface ---
type BriefService interface {
	CreateBrief(req CreateBriefRequest) (*models.WorkBrief, error)
	GetBriefByID(briefID int64) (*models.WorkBrief, error)
	GetBriefByShift(shiftID int64) (*models.WorkBrief, error)
	GetBriefs() ([]models.WorkBrief, error)
	UpdateBrief(briefID int64, req UpdateBriefRequest) (*models.WorkBrief, error)
	DeleteBrief(briefID int64) error
}

// --- briefService Implementation ---
type briefService struct {
	briefRepo repositories.BriefRepository
	shiftRepo repositories.ShiftRepository
}

// NewBriefService creates a new instance of BriefService.
func NewBriefService(br repositories.BriefRepository, sr repositories.ShiftRepository) BriefService {
	return &briefService{briefRepo: br, shiftRepo: sr}
}

func validateQuestions(questions []models.TestQuestion) error {
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrBriefValidation, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least 2 options", ErrBriefValidation, i+1)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct_answer is out of range", ErrBriefValidation, i+1)
		}
	}
	return nil
}

func (s *briefService) CreateBrief(req CreateBriefRequest) (*models.WorkBrief, error) {
	if _, err := s.shiftRepo.GetShiftByID(req.ShiftID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: shift ID %d", ErrShiftForBriefNotFound, req.ShiftID)
		}
		return nil, fmt.Errorf("failed to validate shift for work brief: %w", err)
	}
	if err := validateQuestions(req.TestQuestions); err != nil {
		return nil, err
	}

	status := models.BriefStatusDraft
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status = models.BriefStatus(*req.Status)
		if status != models.BriefStatusDraft && status != models.BriefStatusPublished {
			return nil, fmt.Errorf("%w: invalid status '%s'", ErrBriefValidation, *req.Status)
		}
	}

	passingScore := 80
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, fmt.Errorf("%w: passing_score must be between 0 and 100", ErrBriefValidation)
		}
		passingScore = *req.PassingScore
	}
	maxAttempts := 3
	if req.MaxAttempts != nil {
		if *req.MaxAttempts < 1 {
			return nil, fmt.Errorf("%w: max_attempts must be at least 1", ErrBriefValidation)
		}
		maxAttempts = *req.MaxAttempts
	}

	questions := req.TestQuestions
	if questions == nil {
		questions = []models.TestQuestion{}
	}

	brief := &models.WorkBrief{
		ShiftID:          req.ShiftID,
		Title:            req.Title,
		BrandName:        req.BrandName,
		Description:      req.Description,
		TrainingVideoURL: req.TrainingVideoURL,
		VideoDuration:    req.VideoDuration,
		VideoDescription: req.VideoDescription,
		BrandInformation: req.BrandInformation,
		TestQuestions:    questions,
		PassingScore:     passingScore,
		MaxAttempts:      maxAttempts,
		Status:           status,
	}

	createdBrief, err := s.briefRepo.CreateBrief(brief)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: shift ID %d", ErrBriefAlreadyExists, req.ShiftID)
		}
		return nil, fmt.Errorf("failed to create work brief in repository: %w", err)
	}
	return createdBrief, nil
}

func (s *briefService) GetBriefByID(briefID int64) (*models.WorkBrief, error) {
	brief, err := s.briefRepo.GetBriefByID(briefID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBriefNotFound
		}
		return nil, fmt.Errorf("failed to get work brief by ID: %w", err)
	}
	return brief, nil
}

func (s *briefService) GetBriefByShift(shiftID int64) (*models.WorkBrief, error) {
	brief, err := s.briefRepo.GetBriefByShift(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBriefNotFound
		}
		return nil, fmt.Errorf("failed to get work brief for shift: %w", err)
	}
	return brief, nil
}

func (s *briefService) GetBriefs() ([]models.WorkBrief, error) {
	briefs, err := s.briefRepo.GetBriefs()
	if err != nil {
		return nil, fmt.Errorf("failed to get work briefs: %w", err)
	}
	return briefs, nil
}

func (s *briefService) UpdateBrief(briefID int64, req UpdateBriefRequest) (*models.WorkBrief, error) {
	brief, err := s.briefRepo.GetBriefByID(briefID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBriefNotFound
		}
		return nil, fmt.Errorf("failed to get work brief for update: %w", err)
	}

	if req.Title != nil {
		brief.Title = *req.Title
	}
	if req.BrandName != nil {
		brief.BrandName = *req.BrandName
	}
	if req.Description != nil {
		brief.Description = req.Description
	}
	if req.TrainingVideoURL != nil {
		brief.TrainingVideoURL = req.TrainingVideoURL
	}
	if req.VideoDuration != nil {
		brief.VideoDuration = req.VideoDuration
	}
	if req.VideoDescription != nil {
		brief.VideoDescription = req.VideoDescription
	}
	if req.BrandInformation != nil {
		brief.BrandInformation = req.BrandInformation
	}
	if req.TestQuestions != nil {
		if err := validateQuestions(req.TestQuestions); err != nil {
			return nil, err
		}
		brief.TestQuestions = req.TestQuestions
	}
	if req.PassingScore != nil {
		if *req.PassingScore < 0 || *req.PassingScore > 100 {
			return nil, fmt.Errorf("%w: passing_score must be between 0 and 100", ErrBriefValidation)
		}
		brief.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		if *req.MaxAttempts < 1 {
			return nil, fmt.Errorf("%w: max_attempts must be at least 1", ErrBriefValidation)
		}
		brief.MaxAttempts = *req.MaxAttempts
	}
	if req.Status != nil {
		newStatus := models.BriefStatus(*req.Status)
		if newStatus != models.BriefStatusDraft && newStatus != models.BriefStatusPublished {
			return nil, fmt.Errorf("%w: invalid status '%s'", ErrBriefValidation, *req.Status)
		}
		brief.Status = newStatus
	}

	updatedBrief, err := s.briefRepo.UpdateBrief(brief)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBriefNotFound
		}
		return nil, fmt.Errorf("failed to update work brief: %w", err)
	}
	return updatedBrief, nil
}

func (s *briefService) DeleteBrief(briefID int64) error {
	err := s.briefRepo.DeleteBrief(briefID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBriefNotFound
		}
		return fmt.Errorf("failed to delete work brief: %w", err)
	}
	return nil
}
