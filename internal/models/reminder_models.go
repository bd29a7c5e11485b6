package models

import "time"

// ReminderType defines the two reminder kinds sent ahead of a shift.
type ReminderType string

const (
	ReminderTypeDayBefore ReminderType = "day_before"
	ReminderTypeShiftDay  ReminderType = "shift_day"
)

// IsValidReminderType checks if the provided string is a valid ReminderType.
func IsValidReminderType(reminderType string) bool {
	switch ReminderType(reminderType) {
	case ReminderTypeDayBefore, ReminderTypeShiftDay:
		return true
	}
	return false
}

// ReminderStatus defines the type for reminder delivery statuses
type ReminderStatus string

const (
	ReminderStatusScheduled ReminderStatus = "scheduled"
	ReminderStatusSent      ReminderStatus = "sent"
	ReminderStatusFailed    ReminderStatus = "failed"
)

// ShiftReminder is a pre-rendered notification tied to a worker and shift,
// fired at the computed lead time before the shift. The message text is
// rendered at creation time, not at send time.
type ShiftReminder struct {
	ID           int64          `json:"id" db:"id"`
	ShiftID      int64          `json:"shift_id" db:"shift_id"`
	WorkerID     int64          `json:"worker_id" db:"worker_id"`
	ReminderType ReminderType   `json:"reminder_type" db:"reminder_type"`
	ScheduledFor time.Time      `json:"scheduled_for" db:"scheduled_for"`
	Status       ReminderStatus `json:"status" db:"status"`
	SentAt       *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
	Message      string         `json:"message" db:"message"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
