package repositories

import (
	"sort"
	"sync"
	"time"

	"olivemind_backend/internal/models"

	"github.com/google/uuid"
)

// In-memory repository implementations. They back the service tests and stand
// in for the durable store anywhere a database is not available.

// --- Invitations ---

type MemoryInvitationRepository struct {
	mu          sync.Mutex
	nextID      int64
	invitations map[int64]*models.ShiftInvitation
}

// NewMemoryInvitationRepository creates an empty in-memory InvitationRepository.
func NewMemoryInvitationRepository() *MemoryInvitationRepository {
	return &MemoryInvitationRepository{nextID: 1, invitations: map[int64]*models.ShiftInvitation{}}
}

func (r *MemoryInvitationRepository) Create(shiftID, promoterID int64) (*models.ShiftInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv := &models.ShiftInvitation{
		ID:         r.nextID,
		ShiftID:    shiftID,
		PromoterID: promoterID,
		Status:     models.InvitationStatusPending,
		Token:      uuid.NewString(),
		InvitedAt:  time.Now(),
	}
	r.nextID++
	r.invitations[inv.ID] = inv
	copied := *inv
	return &copied, nil
}

func (r *MemoryInvitationRepository) GetByID(id int64) (*models.ShiftInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.invitations[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *inv
	return &copied, nil
}

func (r *MemoryInvitationRepository) collect(match func(*models.ShiftInvitation) bool) []models.ShiftInvitation {
	result := []models.ShiftInvitation{}
	for _, inv := range r.invitations {
		if match(inv) {
			result = append(result, *inv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *MemoryInvitationRepository) GetByShift(shiftID int64) ([]models.ShiftInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(inv *models.ShiftInvitation) bool { return inv.ShiftID == shiftID }), nil
}

func (r *MemoryInvitationRepository) GetByWorker(workerID int64) ([]models.ShiftInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(inv *models.ShiftInvitation) bool { return inv.PromoterID == workerID }), nil
}

func (r *MemoryInvitationRepository) Respond(id int64, status models.InvitationStatus) (*models.ShiftInvitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inv, ok := r.invitations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !inv.Status.CanTransitionTo(status) {
		return nil, ErrInvalidStatusTransition
	}
	now := time.Now()
	inv.Status = status
	inv.RespondedAt = &now
	copied := *inv
	return &copied, nil
}

func (r *MemoryInvitationRepository) ExpireMany(shiftID int64, excludeIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	now := time.Now()
	for _, inv := range r.invitations {
		if inv.ShiftID == shiftID && inv.Status == models.InvitationStatusPending && !excluded[inv.ID] {
			inv.Status = models.InvitationStatusExpired
			respondedAt := now
			inv.RespondedAt = &respondedAt
		}
	}
	return nil
}

// --- Reminders ---

type MemoryReminderRepository struct {
	mu        sync.Mutex
	nextID    int64
	reminders map[int64]*models.ShiftReminder
}

// NewMemoryReminderRepository creates an empty in-memory ReminderRepository.
func NewMemoryReminderRepository() *MemoryReminderRepository {
	return &MemoryReminderRepository{nextID: 1, reminders: map[int64]*models.ShiftReminder{}}
}

func (r *MemoryReminderRepository) Create(shiftID, workerID int64, reminderType models.ReminderType, scheduledFor time.Time, message string) (*models.ShiftReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem := &models.ShiftReminder{
		ID:           r.nextID,
		ShiftID:      shiftID,
		WorkerID:     workerID,
		ReminderType: reminderType,
		ScheduledFor: scheduledFor,
		Status:       models.ReminderStatusScheduled,
		Message:      message,
		CreatedAt:    time.Now(),
	}
	r.nextID++
	r.reminders[rem.ID] = rem
	copied := *rem
	return &copied, nil
}

func (r *MemoryReminderRepository) collect(match func(*models.ShiftReminder) bool) []models.ShiftReminder {
	result := []models.ShiftReminder{}
	for _, rem := range r.reminders {
		if match(rem) {
			result = append(result, *rem)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *MemoryReminderRepository) GetByShift(shiftID int64) ([]models.ShiftReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(rem *models.ShiftReminder) bool { return rem.ShiftID == shiftID }), nil
}

func (r *MemoryReminderRepository) GetByWorker(workerID int64) ([]models.ShiftReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(rem *models.ShiftReminder) bool { return rem.WorkerID == workerID }), nil
}

func (r *MemoryReminderRepository) GetDue(asOf time.Time) ([]models.ShiftReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(rem *models.ShiftReminder) bool {
		return rem.Status == models.ReminderStatusScheduled && !rem.ScheduledFor.After(asOf)
	}), nil
}

func (r *MemoryReminderRepository) MarkSent(id int64) (*models.ShiftReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.reminders[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := time.Now()
	rem.Status = models.ReminderStatusSent
	rem.SentAt = &now
	copied := *rem
	return &copied, nil
}

func (r *MemoryReminderRepository) MarkFailed(id int64) (*models.ShiftReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.reminders[id]
	if !ok {
		return nil, ErrNotFound
	}
	rem.Status = models.ReminderStatusFailed
	copied := *rem
	return &copied, nil
}

func (r *MemoryReminderRepository) DeleteByShift(shiftID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rem := range r.reminders {
		if rem.ShiftID == shiftID {
			delete(r.reminders, id)
		}
	}
	return nil
}

// --- Shifts ---

type MemoryShiftRepository struct {
	mu     sync.Mutex
	nextID int64
	shifts map[int64]*models.Shift
}

// NewMemoryShiftRepository creates an empty in-memory ShiftRepository.
func NewMemoryShiftRepository() *MemoryShiftRepository {
	return &MemoryShiftRepository{nextID: 1, shifts: map[int64]*models.Shift{}}
}

func copyShift(shift *models.Shift) *models.Shift {
	copied := *shift
	copied.AssignedWorkers = append([]int64{}, shift.AssignedWorkers...)
	copied.InvitedWorkers = append([]int64{}, shift.InvitedWorkers...)
	return &copied
}

func (r *MemoryShiftRepository) CreateShift(shift *models.Shift) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyShift(shift)
	stored.ID = r.nextID
	r.nextID++
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.shifts[stored.ID] = stored
	return copyShift(stored), nil
}

func (r *MemoryShiftRepository) GetShiftByID(id int64) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shift, ok := r.shifts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyShift(shift), nil
}

func (r *MemoryShiftRepository) GetShifts(filters ShiftFilters) ([]models.Shift, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []models.Shift{}
	for _, shift := range r.shifts {
		if filters.Status != nil && *filters.Status != "" && string(shift.Status) != *filters.Status {
			continue
		}
		if filters.Area != nil && *filters.Area != "" && (shift.Area == nil || *shift.Area != *filters.Area) {
			continue
		}
		if filters.DateFrom != nil && shift.StartDatetime.Before(*filters.DateFrom) {
			continue
		}
		if filters.DateTo != nil && shift.StartDatetime.After(*filters.DateTo) {
			continue
		}
		result = append(result, *copyShift(shift))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDatetime.Before(result[j].StartDatetime) })
	return result, len(result), nil
}

func (r *MemoryShiftRepository) UpdateShift(shift *models.Shift) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.shifts[shift.ID]
	if !ok {
		return nil, ErrNotFound
	}
	updated := copyShift(shift)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	r.shifts[shift.ID] = updated
	return copyShift(updated), nil
}

func (r *MemoryShiftRepository) DeleteShift(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shifts[id]; !ok {
		return ErrNotFound
	}
	delete(r.shifts, id)
	return nil
}

// --- Workers ---

type MemoryWorkerRepository struct {
	mu      sync.Mutex
	nextID  int64
	workers map[int64]*models.Worker
}

// NewMemoryWorkerRepository creates an empty in-memory WorkerRepository.
func NewMemoryWorkerRepository() *MemoryWorkerRepository {
	return &MemoryWorkerRepository{nextID: 1, workers: map[int64]*models.Worker{}}
}

func (r *MemoryWorkerRepository) CreateWorker(worker *models.Worker) (*models.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *worker
	stored.ID = r.nextID
	r.nextID++
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.workers[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *MemoryWorkerRepository) GetWorkerByID(id int64) (*models.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	worker, ok := r.workers[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *worker
	return &copied, nil
}

func (r *MemoryWorkerRepository) GetAllWorkers() ([]models.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []models.Worker{}
	for _, worker := range r.workers {
		result = append(result, *worker)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryWorkerRepository) UpdateWorker(worker *models.Worker) (*models.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.workers[worker.ID]
	if !ok {
		return nil, ErrNotFound
	}
	updated := *worker
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	r.workers[worker.ID] = &updated
	copied := updated
	return &copied, nil
}
