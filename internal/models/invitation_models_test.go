package models

import "testing"

func TestInvitationStatusTransitions(t *testing.T) {
	statuses := []InvitationStatus{
		InvitationStatusPending,
		InvitationStatusAccepted,
		InvitationStatusDeclined,
		InvitationStatusExpired,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			got := from.CanTransitionTo(to)
			want := from == InvitationStatusPending && to != InvitationStatusPending
			if got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestInvitationStatusIsTerminal(t *testing.T) {
	if InvitationStatusPending.IsTerminal() {
		t.Error("pending must not be terminal")
	}
	for _, s := range []InvitationStatus{InvitationStatusAccepted, InvitationStatusDeclined, InvitationStatusExpired} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestIsValidInvitationStatus(t *testing.T) {
	if !IsValidInvitationStatus(InvitationStatusAccepted) {
		t.Error("accepted should be valid")
	}
	if IsValidInvitationStatus(InvitationStatus("maybe")) {
		t.Error("unknown status should be invalid")
	}
}

func TestShiftCapacityHelpers(t *testing.T) {
	shift := Shift{
		RequiredWorkers: 2,
		AssignedWorkers: []int64{10},
		InvitedWorkers:  []int64{10, 11},
	}
	if shift.IsFull() {
		t.Error("one of two slots taken, not full")
	}
	if !shift.HasAssignedWorker(10) || shift.HasAssignedWorker(11) {
		t.Error("HasAssignedWorker mismatch")
	}
	if !shift.HasInvitedWorker(11) || shift.HasInvitedWorker(12) {
		t.Error("HasInvitedWorker mismatch")
	}

	shift.AssignedWorkers = append(shift.AssignedWorkers, 11)
	if !shift.IsFull() {
		t.Error("both slots taken, shift is full")
	}
}
