package services

import (
	"errors"
	"fmt"
	"sync"

	"olivemind_backend/internal/models"
	"olivemind_backend/internal/repositories"
)

// --- Custom Service Errors for Invitations ---
var (
	ErrInvitationNotFound         = errors.New("invitation not found")
	ErrInvitationAlreadyResponded = errors.New("invitation has already been responded to")
	ErrInvitationExpired          = errors.New("shift is already fully staffed, invitation expired")
	ErrInvalidDecision            = errors.New("decision must be 'accepted' or 'declined'")
	ErrShiftForInvitationNotFound = errors.New("shift specified for invitation not found")
)

// --- Invitation DTOs ---
type SendInvitationsRequest struct {
	WorkerIDs []int64 `json:"worker_ids" binding:"required"`
}

type RespondToInvitationRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// SendInvitationsResult reports which workers actually received an invitation
// and which were skipped because they were already invited or assigned.
type SendInvitationsResult struct {
	Invitations []models.ShiftInvitation `json:"invitations"`
	SkippedIDs  []int64                  `json:"skipped_worker_ids"`
}

// --- InvitationService Interface ---
type InvitationService interface {
	SendInvitations(shiftID int64, req SendInvitationsRequest) (*SendInvitationsResult, error)
	RespondToInvitation(invitationID int64, req RespondToInvitationRequest) (*models.ShiftInvitation, error)
	GetInvitationByID(invitationID int64) (*models.ShiftInvitation, error)
	GetInvitationsByShift(shiftID int64) ([]models.ShiftInvitation, error)
	GetInvitationsByWorker(workerID int64) ([]models.ShiftInvitation, error)
}

// shiftLocks hands out one mutex per shift so responses to the same shift are
// serialized while responses to different shifts run concurrently.
type shiftLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newShiftLocks() *shiftLocks {
	return &shiftLocks{locks: map[int64]*sync.Mutex{}}
}

func (l *shiftLocks) forShift(shiftID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[shiftID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[shiftID] = lock
	}
	return lock
}

// --- invitationService Implementation ---
type invitationService struct {
	invitationRepo repositories.InvitationRepository
	shiftRepo      repositories.ShiftRepository
	workerRepo     repositories.WorkerRepository
	shiftSvc       ShiftService
	locks          *shiftLocks
}

// NewInvitationService creates a new instance of InvitationService.
func NewInvitationService(ir repositories.InvitationRepository, sr repositories.ShiftRepository, wr repositories.WorkerRepository, ss ShiftService) InvitationService {
	return &invitationService{
		invitationRepo: ir,
		shiftRepo:      sr,
		workerRepo:     wr,
		shiftSvc:       ss,
		locks:          newShiftLocks(),
	}
}

// SendInvitations creates pending invitations for every eligible worker in
// the request. Workers already invited or already assigned to the shift are
// skipped, as are worker IDs that do not exist.
func (s *invitationService) SendInvitations(shiftID int64, req SendInvitationsRequest) (*SendInvitationsResult, error) {
	shift, err := s.shiftRepo.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftForInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get shift for invitations: %w", err)
	}

	result := &SendInvitationsResult{
		Invitations: []models.ShiftInvitation{},
		SkippedIDs:  []int64{},
	}
	for _, workerID := range req.WorkerIDs {
		if shift.HasInvitedWorker(workerID) || shift.HasAssignedWorker(workerID) {
			result.SkippedIDs = append(result.SkippedIDs, workerID)
			continue
		}
		if _, err := s.workerRepo.GetWorkerByID(workerID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				result.SkippedIDs = append(result.SkippedIDs, workerID)
				continue
			}
			return nil, fmt.Errorf("failed to validate worker %d for invitation: %w", workerID, err)
		}

		invitation, err := s.invitationRepo.Create(shiftID, workerID)
		if err != nil {
			return nil, fmt.Errorf("failed to create invitation for worker %d: %w", workerID, err)
		}
		result.Invitations = append(result.Invitations, *invitation)
		shift.InvitedWorkers = append(shift.InvitedWorkers, workerID)
	}

	if len(result.Invitations) > 0 {
		if _, err := s.shiftRepo.UpdateShift(shift); err != nil {
			return nil, fmt.Errorf("failed to record invited workers on shift: %w", err)
		}
	}
	return result, nil
}

// RespondToInvitation applies a worker's decision to a pending invitation.
// Declines are recorded directly. Accepts are serialized per shift: the
// worker is assigned only while a slot is still open, and an accept that
// arrives after the shift filled up is relabeled expired. Filling the last
// slot expires every other still-pending invitation for the shift.
func (s *invitationService) RespondToInvitation(invitationID int64, req RespondToInvitationRequest) (*models.ShiftInvitation, error) {
	decision := models.InvitationStatus(req.Decision)
	if decision != models.InvitationStatusAccepted && decision != models.InvitationStatusDeclined {
		return nil, fmt.Errorf("%w: got '%s'", ErrInvalidDecision, req.Decision)
	}

	invitation, err := s.invitationRepo.GetByID(invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	if invitation.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: status is '%s'", ErrInvitationAlreadyResponded, invitation.Status)
	}

	if decision == models.InvitationStatusDeclined {
		return s.respond(invitationID, models.InvitationStatusDeclined)
	}

	lock := s.locks.forShift(invitation.ShiftID)
	lock.Lock()
	defer lock.Unlock()

	// Re-fetch under the lock; the roster may have changed while we waited.
	shift, err := s.shiftRepo.GetShiftByID(invitation.ShiftID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftForInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get shift for invitation response: %w", err)
	}

	if shift.IsFull() && !shift.HasAssignedWorker(invitation.PromoterID) {
		expired, err := s.respond(invitationID, models.InvitationStatusExpired)
		if err != nil {
			return nil, err
		}
		return expired, ErrInvitationExpired
	}

	accepted, err := s.respond(invitationID, models.InvitationStatusAccepted)
	if err != nil {
		return nil, err
	}

	updatedShift, err := s.shiftSvc.AssignWorkerToShift(shift.ID, invitation.PromoterID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign worker after acceptance: %w", err)
	}

	if updatedShift.IsFull() {
		if err := s.expirePendingInvitations(updatedShift.ID); err != nil {
			return nil, err
		}
	}
	return accepted, nil
}

func (s *invitationService) respond(invitationID int64, status models.InvitationStatus) (*models.ShiftInvitation, error) {
	invitation, err := s.invitationRepo.Respond(invitationID, status)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidStatusTransition) {
			return nil, ErrInvitationAlreadyResponded
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to record invitation response: %w", err)
	}
	return invitation, nil
}

// expirePendingInvitations closes out every still-pending invitation for a
// shift that just filled up. Accepted and declined invitations keep their
// status.
func (s *invitationService) expirePendingInvitations(shiftID int64) error {
	invitations, err := s.invitationRepo.GetByShift(shiftID)
	if err != nil {
		return fmt.Errorf("failed to list invitations for expiry: %w", err)
	}
	keep := []int64{}
	for _, inv := range invitations {
		if inv.Status == models.InvitationStatusAccepted {
			keep = append(keep, inv.ID)
		}
	}
	if err := s.invitationRepo.ExpireMany(shiftID, keep); err != nil {
		return fmt.Errorf("failed to expire pending invitations: %w", err)
	}
	return nil
}

func (s *invitationService) GetInvitationByID(invitationID int64) (*models.ShiftInvitation, error) {
	invitation, err := s.invitationRepo.GetByID(invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to get invitation by ID: %w", err)
	}
	return invitation, nil
}

func (s *invitationService) GetInvitationsByShift(shiftID int64) ([]models.ShiftInvitation, error) {
	invitations, err := s.invitationRepo.GetByShift(shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitations for shift: %w", err)
	}
	return invitations, nil
}

func (s *invitationService) GetInvitationsByWorker(workerID int64) ([]models.ShiftInvitation, error) {
	invitations, err := s.invitationRepo.GetByWorker(workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitations for worker: %w", err)
	}
	return invitations, nil
}
