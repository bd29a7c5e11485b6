package models

import "time"

// InvitationStatus defines the type for shift invitation statuses
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// IsValidInvitationStatus checks if the provided status is a valid InvitationStatus.
func IsValidInvitationStatus(status InvitationStatus) bool {
	switch status {
	case InvitationStatusPending,
		InvitationStatusAccepted,
		InvitationStatusDeclined,
		InvitationStatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
// Only pending invitations may still be responded to.
func (s InvitationStatus) IsTerminal() bool {
	return s != InvitationStatusPending
}

// CanTransitionTo reports whether a transition from s to target is allowed.
// The only legal transitions are pending -> accepted|declined|expired.
func (s InvitationStatus) CanTransitionTo(target InvitationStatus) bool {
	if s != InvitationStatusPending {
		return false
	}
	switch target {
	case InvitationStatusAccepted, InvitationStatusDeclined, InvitationStatusExpired:
		return true
	}
	return false
}

// ShiftInvitation represents an offer extended to one worker for one shift.
type ShiftInvitation struct {
	ID          int64            `json:"id" db:"id"`
	ShiftID     int64            `json:"shift_id" db:"shift_id"`
	PromoterID  int64            `json:"promoter_id" db:"promoter_id"`
	Status      InvitationStatus `json:"status" db:"status"`
	Token       string           `json:"token" db:"token"` // opaque reference embedded in the worker's message link
	InvitedAt   time.Time        `json:"invited_at" db:"invited_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty" db:"responded_at"`
}
