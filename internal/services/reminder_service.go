package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"olivemind_backend/internal/models"
	"olivemind_backend/internal/repositories"
)

// --- Custom Service Errors for Reminders ---
var (
	ErrReminderNotFound = errors.New("reminder not found")
)

// SchedulingError aggregates the per-worker failures of a best-effort
// scheduling pass. Callers log it and carry on; a partially scheduled shift is
// still a valid shift.
type SchedulingError struct {
	ShiftID  int64
	Failures []error
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("scheduling reminders for shift %d: %d failure(s): %v", e.ShiftID, len(e.Failures), errors.Join(e.Failures...))
}

// ReminderTimes holds the two fire-times derived from a shift start.
type ReminderTimes struct {
	DayBefore time.Time
	ShiftDay  time.Time
}

// MessageSender delivers a reminder message to a worker. Implemented by the
// dispatch layer; tests substitute a recording fake.
type MessageSender interface {
	SendMessage(workerID int64, message string) error
}

// --- ReminderService Interface ---
type ReminderService interface {
	CalculateReminderTimes(start time.Time) ReminderTimes
	GenerateReminderMessage(shift *models.Shift, worker *models.Worker, reminderType models.ReminderType) string
	ScheduleRemindersForShift(shift *models.Shift, workerIDs []int64) error
	ProcessDueReminders(now time.Time) (sent int, failed int, err error)
	MarkReminderSent(reminderID int64) (*models.ShiftReminder, error)
	GetRemindersByShift(shiftID int64) ([]models.ShiftReminder, error)
	GetRemindersByWorker(workerID int64) ([]models.ShiftReminder, error)
}

// --- reminderService Implementation ---
type reminderService struct {
	reminderRepo repositories.ReminderRepository
	workerRepo   repositories.WorkerRepository
	sender       MessageSender
	nowFn        func() time.Time
}

// NewReminderService creates a new instance of ReminderService.
func NewReminderService(rr repositories.ReminderRepository, wr repositories.WorkerRepository, sender MessageSender) ReminderService {
	return &reminderService{
		reminderRepo: rr,
		workerRepo:   wr,
		sender:       sender,
		nowFn:        time.Now,
	}
}

// CalculateReminderTimes derives both fire-times from the shift start.
// The day-before reminder always fires at 18:00 in the shift's own timezone.
// The shift-day check-in fires 4 hours before late starts (11:00 or later)
// and 2 hours before early ones.
func (s *reminderService) CalculateReminderTimes(start time.Time) ReminderTimes {
	dayBefore := time.Date(start.Year(), start.Month(), start.Day()-1, 18, 0, 0, 0, start.Location())

	lead := 2 * time.Hour
	if start.Hour() >= 11 {
		lead = 4 * time.Hour
	}
	return ReminderTimes{DayBefore: dayBefore, ShiftDay: start.Add(-lead)}
}

func derefOrEmpty(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

// formatShiftDuration renders the shift length in hours, rounded to one
// decimal place, without trailing zeros ("6" and "6.5", never "6.0").
func formatShiftDuration(start, end time.Time) string {
	hours := end.Sub(start).Hours()
	return strconv.FormatFloat(math.Round(hours*10)/10, 'f', -1, 64)
}

// GenerateReminderMessage renders the WhatsApp-style message body for a
// reminder. Wording and field order match the message copy the operations
// team signed off on; do not reorder fields.
func (s *reminderService) GenerateReminderMessage(shift *models.Shift, worker *models.Worker, reminderType models.ReminderType) string {
	startTime := shift.StartDatetime.Format("15:04")
	endTime := shift.EndDatetime.Format("15:04")

	if reminderType == models.ReminderTypeDayBefore {
		return fmt.Sprintf("*Work Reminder - Tomorrow*\n\n"+
			"Hello %s,\n\n"+
			"This is a reminder about your work shift tomorrow:\n\n"+
			"*Shift Details:*\n"+
			"*Title:* %s\n"+
			"*Brand:* %s\n"+
			"*Location:* %s\n"+
			"*Date:* %s\n"+
			"*Time:* %s - %s (%s hours)\n"+
			"*Call Time:* %d minutes before start time\n\n"+
			"*Dress Code:* %s\n\n"+
			"*Important Reminders:*\n"+
			"• %s\n"+
			"• Please ensure that your phone is fully charged and also bring a power bank or a charger\n"+
			"• Arrive %d minutes early for call time\n\n"+
			"See you tomorrow!\n\n"+
			"Olive Mind Marketing Team",
			worker.FullName,
			shift.Title,
			shift.BrandName,
			shift.Location,
			shift.StartDatetime.Format("Monday 2 January 2006"),
			startTime, endTime, formatShiftDuration(shift.StartDatetime, shift.EndDatetime),
			shift.CallTimeMinutes,
			derefOrEmpty(shift.DressCode),
			derefOrEmpty(shift.PhotoRequirements),
			shift.CallTimeMinutes,
		)
	}

	return fmt.Sprintf("*Work Shift Today - Check-in*\n\n"+
		"Hello %s,\n\n"+
		"Is everything on track for your work shift?\n\n"+
		"*Today's Shift:*\n"+
		"*Title:* %s\n"+
		"*Brand:* %s\n"+
		"*Location:* %s\n"+
		"*Time:* %s - %s\n"+
		"*Call Time:* %d minutes before start time\n\n"+
		"Please confirm you're ready and on your way.\n\n"+
		"Olive Mind Marketing Team",
		worker.FullName,
		shift.Title,
		shift.BrandName,
		shift.Location,
		startTime, endTime,
		shift.CallTimeMinutes,
	)
}

// ScheduleRemindersForShift replaces every reminder for the shift with a fresh
// set for the given workers. Unknown worker IDs are skipped, fire-times
// already in the past are never scheduled, and per-worker persistence failures
// are collected rather than aborting the pass.
func (s *reminderService) ScheduleRemindersForShift(shift *models.Shift, workerIDs []int64) error {
	if err := s.reminderRepo.DeleteByShift(shift.ID); err != nil {
		return fmt.Errorf("failed to clear existing reminders for shift %d: %w", shift.ID, err)
	}

	now := s.nowFn()
	times := s.CalculateReminderTimes(shift.StartDatetime)

	var failures []error
	for _, workerID := range workerIDs {
		worker, err := s.workerRepo.GetWorkerByID(workerID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			failures = append(failures, fmt.Errorf("worker %d lookup: %w", workerID, err))
			continue
		}

		entries := []struct {
			reminderType models.ReminderType
			fireAt       time.Time
		}{
			{models.ReminderTypeDayBefore, times.DayBefore},
			{models.ReminderTypeShiftDay, times.ShiftDay},
		}
		for _, entry := range entries {
			if !entry.fireAt.After(now) {
				continue
			}
			message := s.GenerateReminderMessage(shift, worker, entry.reminderType)
			if _, err := s.reminderRepo.Create(shift.ID, worker.ID, entry.reminderType, entry.fireAt, message); err != nil {
				failures = append(failures, fmt.Errorf("worker %d %s reminder: %w", worker.ID, entry.reminderType, err))
			}
		}
	}

	if len(failures) > 0 {
		return &SchedulingError{ShiftID: shift.ID, Failures: failures}
	}
	return nil
}

// ProcessDueReminders delivers every scheduled reminder whose fire-time has
// passed. Delivery failures mark the reminder failed so the dispatcher does
// not retry it forever.
func (s *reminderService) ProcessDueReminders(now time.Time) (int, int, error) {
	due, err := s.reminderRepo.GetDue(now)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch due reminders: %w", err)
	}

	sent, failed := 0, 0
	for _, reminder := range due {
		if err := s.sender.SendMessage(reminder.WorkerID, reminder.Message); err != nil {
			if _, markErr := s.reminderRepo.MarkFailed(reminder.ID); markErr != nil {
				return sent, failed, fmt.Errorf("failed to mark reminder %d as failed: %w", reminder.ID, markErr)
			}
			failed++
			continue
		}
		if _, err := s.reminderRepo.MarkSent(reminder.ID); err != nil {
			return sent, failed, fmt.Errorf("failed to mark reminder %d as sent: %w", reminder.ID, err)
		}
		sent++
	}
	return sent, failed, nil
}

func (s *reminderService) MarkReminderSent(reminderID int64) (*models.ShiftReminder, error) {
	reminder, err := s.reminderRepo.MarkSent(reminderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to mark reminder as sent: %w", err)
	}
	return reminder, nil
}

func (s *reminderService) GetRemindersByShift(shiftID int64) ([]models.ShiftReminder, error) {
	reminders, err := s.reminderRepo.GetByShift(shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminders for shift: %w", err)
	}
	return reminders, nil
}

func (s *reminderService) GetRemindersByWorker(workerID int64) ([]models.ShiftReminder, error) {
	reminders, err := s.reminderRepo.GetByWorker(workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminders for worker: %w", err)
	}
	return reminders, nil
}
