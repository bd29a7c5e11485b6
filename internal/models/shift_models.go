package models

import "time"

// ShiftStatus defines the type for shift statuses
type ShiftStatus string

const (
	ShiftStatusDraft     ShiftStatus = "draft"
	ShiftStatusPublished ShiftStatus = "published"
	ShiftStatusCancelled ShiftStatus = "cancelled"
	ShiftStatusFull      ShiftStatus = "full"
)

// IsValidShiftStatus checks if the provided status is a valid ShiftStatus.
func IsValidShiftStatus(status ShiftStatus) bool {
	switch status {
	case ShiftStatusDraft,
		ShiftStatusPublished,
		ShiftStatusCancelled,
		ShiftStatusFull:
		return true
	}
	return false
}

// Shift represents a bookable promotion shift with a required worker count,
// time window and the brand/location metadata used in worker messages.
type Shift struct {
	ID                  int64       `json:"id" db:"id"`
	Title               string      `json:"title" db:"title"`
	Description         *string     `json:"description,omitempty" db:"description"`
	BrandName           string      `json:"brand_name" db:"brand_name"`
	Location            string      `json:"location" db:"location"`
	Area                *string     `json:"area,omitempty" db:"area"`
	StartDatetime       time.Time   `json:"start_datetime" db:"start_datetime"`
	EndDatetime         time.Time   `json:"end_datetime" db:"end_datetime"`
	RequiredWorkers     int         `json:"required_workers" db:"required_workers"`
	AssignedWorkers     []int64     `json:"assigned_workers" db:"assigned_workers"`
	InvitedWorkers      []int64     `json:"invited_workers" db:"invited_workers"`
	HourlyRate          float64     `json:"hourly_rate" db:"hourly_rate"`
	AdditionalFees      float64     `json:"additional_fees" db:"additional_fees"`
	CallTimeMinutes     int         `json:"call_time_minutes" db:"call_time_minutes"`
	DressCode           *string     `json:"dress_code,omitempty" db:"dress_code"`
	PhotoRequirements   *string     `json:"photo_requirements,omitempty" db:"photo_requirements"`
	PromotionDetails    *string     `json:"promotion_details,omitempty" db:"promotion_details"`
	SpecialInstructions *string     `json:"special_instructions,omitempty" db:"special_instructions"`
	Status              ShiftStatus `json:"status" db:"status"`
	CreatedBy           *string     `json:"created_by,omitempty" db:"created_by"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`
}

// IsFull reports whether the assigned worker set has reached the required count.
func (s *Shift) IsFull() bool {
	return len(s.AssignedWorkers) >= s.RequiredWorkers
}

// HasAssignedWorker reports whether the given worker is already assigned.
func (s *Shift) HasAssignedWorker(workerID int64) bool {
	for _, id := range s.AssignedWorkers {
		if id == workerID {
			return true
		}
	}
	return false
}

// HasInvitedWorker reports whether the given worker has already been invited.
func (s *Shift) HasInvitedWorker(workerID int64) bool {
	for _, id := range s.InvitedWorkers {
		if id == workerID {
			return true
		}
	}
	return false
}
