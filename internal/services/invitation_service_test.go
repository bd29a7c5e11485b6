package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"olivemind_backend/internal/models"
	"olivemind_backend/internal/repositories"
)

type invitationFixture struct {
	invitationSvc  InvitationService
	shiftSvc       ShiftService
	invitationRepo repositories.InvitationRepository
	shiftRepo      repositories.ShiftRepository
	workerRepo     repositories.WorkerRepository
	reminderRepo   repositories.ReminderRepository
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	invitationRepo := repositories.NewMemoryInvitationRepository()
	shiftRepo := repositories.NewMemoryShiftRepository()
	workerRepo := repositories.NewMemoryWorkerRepository()
	reminderRepo := repositories.NewMemoryReminderRepository()

	reminderSvc := NewReminderService(reminderRepo, workerRepo, &fakeSender{failFor: map[int64]bool{}})
	shiftSvc := NewShiftService(shiftRepo, workerRepo, reminderSvc)
	invitationSvc := NewInvitationService(invitationRepo, shiftRepo, workerRepo, shiftSvc)

	return &invitationFixture{
		invitationSvc:  invitationSvc,
		shiftSvc:       shiftSvc,
		invitationRepo: invitationRepo,
		shiftRepo:      shiftRepo,
		workerRepo:     workerRepo,
		reminderRepo:   reminderRepo,
	}
}

func (f *invitationFixture) addWorker(t *testing.T, name string) *models.Worker {
	t.Helper()
	worker, err := f.workerRepo.CreateWorker(&models.Worker{FullName: name, IsActive: true})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}
	return worker
}

func (f *invitationFixture) addShift(t *testing.T, requiredWorkers int) *models.Shift {
	t.Helper()
	start := time.Now().AddDate(0, 0, 7).Truncate(time.Hour)
	shift, err := f.shiftRepo.CreateShift(&models.Shift{
		Title:           "Mall Activation",
		BrandName:       "Karoo Springs",
		Location:        "Canal Walk",
		StartDatetime:   start,
		EndDatetime:     start.Add(6 * time.Hour),
		RequiredWorkers: requiredWorkers,
		AssignedWorkers: []int64{},
		InvitedWorkers:  []int64{},
		CallTimeMinutes: 30,
		Status:          models.ShiftStatusPublished,
	})
	if err != nil {
		t.Fatalf("create shift: %v", err)
	}
	return shift
}

func (f *invitationFixture) invite(t *testing.T, shiftID int64, workerIDs ...int64) []models.ShiftInvitation {
	t.Helper()
	result, err := f.invitationSvc.SendInvitations(shiftID, SendInvitationsRequest{WorkerIDs: workerIDs})
	if err != nil {
		t.Fatalf("SendInvitations: %v", err)
	}
	return result.Invitations
}

func TestSendInvitations(t *testing.T) {
	fx := newInvitationFixture(t)
	alice := fx.addWorker(t, "Alice Botha")
	ben := fx.addWorker(t, "Ben van Wyk")
	shift := fx.addShift(t, 2)

	result, err := fx.invitationSvc.SendInvitations(shift.ID, SendInvitationsRequest{
		WorkerIDs: []int64{alice.ID, ben.ID, 999},
	})
	if err != nil {
		t.Fatalf("SendInvitations: %v", err)
	}
	if len(result.Invitations) != 2 {
		t.Fatalf("got %d invitations, want 2", len(result.Invitations))
	}
	if len(result.SkippedIDs) != 1 || result.SkippedIDs[0] != 999 {
		t.Errorf("skipped = %v, want [999]", result.SkippedIDs)
	}

	tokens := map[string]bool{}
	for _, inv := range result.Invitations {
		if inv.Status != models.InvitationStatusPending {
			t.Errorf("invitation %d status = %s, want pending", inv.ID, inv.Status)
		}
		if inv.Token == "" {
			t.Errorf("invitation %d has an empty token", inv.ID)
		}
		if tokens[inv.Token] {
			t.Errorf("duplicate token %s", inv.Token)
		}
		tokens[inv.Token] = true
	}

	updatedShift, _ := fx.shiftRepo.GetShiftByID(shift.ID)
	if !updatedShift.HasInvitedWorker(alice.ID) || !updatedShift.HasInvitedWorker(ben.ID) {
		t.Errorf("invited workers not recorded on shift: %v", updatedShift.InvitedWorkers)
	}

	// A second send skips workers who are already invited.
	second, err := fx.invitationSvc.SendInvitations(shift.ID, SendInvitationsRequest{
		WorkerIDs: []int64{alice.ID},
	})
	if err != nil {
		t.Fatalf("second SendInvitations: %v", err)
	}
	if len(second.Invitations) != 0 || len(second.SkippedIDs) != 1 {
		t.Errorf("re-inviting should skip: got %d invitations, %d skipped", len(second.Invitations), len(second.SkippedIDs))
	}
}

func TestSendInvitationsShiftNotFound(t *testing.T) {
	fx := newInvitationFixture(t)
	worker := fx.addWorker(t, "Alice Botha")
	_, err := fx.invitationSvc.SendInvitations(12345, SendInvitationsRequest{WorkerIDs: []int64{worker.ID}})
	if !errors.Is(err, ErrShiftForInvitationNotFound) {
		t.Errorf("got %v, want ErrShiftForInvitationNotFound", err)
	}
}

func TestRespondDecline(t *testing.T) {
	fx := newInvitationFixture(t)
	worker := fx.addWorker(t, "Alice Botha")
	shift := fx.addShift(t, 1)
	inv := fx.invite(t, shift.ID, worker.ID)[0]

	responded, err := fx.invitationSvc.RespondToInvitation(inv.ID, RespondToInvitationRequest{Decision: "declined"})
	if err != nil {
		t.Fatalf("RespondToInvitation: %v", err)
	}
	if responded.Status != models.InvitationStatusDeclined {
		t.Errorf("status = %s, want declined", responded.Status)
	}
	if responded.RespondedAt == nil {
		t.Error("responded_at not stamped")
	}

	updatedShift, _ := fx.shiftRepo.GetShiftByID(shift.ID)
	if len(updatedShift.AssignedWorkers) != 0 {
		t.Errorf("decline must not assign: %v", updatedShift.AssignedWorkers)
	}
}

func TestRespondAcceptAssignsAndSchedules(t *testing.T) {
	fx := newInvitationFixture(t)
	worker := fx.addWorker(t, "Alice Botha")
	shift := fx.addShift(t, 2)
	inv := fx.invite(t, shift.ID, worker.ID)[0]

	responded, err := fx.invitationSvc.RespondToInvitation(inv.ID, RespondToInvitationRequest{Decision: "accepted"})
	if err != nil {
		t.Fatalf("RespondToInvitation: %v", err)
	}
	if responded.Status != models.InvitationStatusAccepted {
		t.Errorf("status = %s, want accepted", responded.Status)
	}

	updatedShift, _ := fx.shiftRepo.GetShiftByID(shift.ID)
	if !updatedShift.HasAssignedWorker(worker.ID) {
		t.Errorf("worker not assigned: %v", updatedShift.AssignedWorkers)
	}
	if updatedShift.Status == models.ShiftStatusFull {
		t.Error("shift with an open slot must not be full")
	}

	reminders, _ := fx.reminderRepo.GetByShift(shift.ID)
	if len(reminders) != 2 {
		t.Errorf("got %d reminders after acceptance, want 2", len(reminders))
	}
}

func TestAcceptFillsShiftAndExpiresPending(t *testing.T) {
	fx := newInvitationFixture(t)
	alice := fx.addWorker(t, "Alice Botha")
	ben := fx.addWorker(t, "Ben van Wyk")
	carol := fx.addWorker(t, "Carol Naidoo")
	dina := fx.addWorker(t, "Dina Petersen")
	shift := fx.addShift(t, 2)
	invs := fx.invite(t, shift.ID, alice.ID, ben.ID, carol.ID, dina.ID)

	if _, err := fx.invitationSvc.RespondToInvitation(invs[0].ID, RespondToInvitationRequest{Decision: "accepted"}); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := fx.invitationSvc.RespondToInvitation(invs[1].ID, RespondToInvitationRequest{Decision: "declined"}); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := fx.invitationSvc.RespondToInvitation(invs[2].ID, RespondToInvitationRequest{Decision: "accepted"}); err != nil {
		t.Fatalf("filling accept: %v", err)
	}

	updatedShift, _ := fx.shiftRepo.GetShiftByID(shift.ID)
	if updatedShift.Status != models.ShiftStatusFull {
		t.Errorf("shift status = %s, want full", updatedShift.Status)
	}
	if len(updatedShift.AssignedWorkers) != 2 {
		t.Errorf("assigned = %v, want 2 workers", updatedShift.AssignedWorkers)
	}

	all, _ := fx.invitationRepo.GetByShift(shift.ID)
	statuses := map[int64]models.InvitationStatus{}
	for _, inv := range all {
		statuses[inv.ID] = inv.Status
	}
	if statuses[invs[0].ID] != models.InvitationStatusAccepted {
		t.Errorf("first accept relabeled to %s", statuses[invs[0].ID])
	}
	if statuses[invs[1].ID] != models.InvitationStatusDeclined {
		t.Errorf("decline relabeled to %s", statuses[invs[1].ID])
	}
	if statuses[invs[2].ID] != models.InvitationStatusAccepted {
		t.Errorf("filling accept relabeled to %s", statuses[invs[2].ID])
	}
	if statuses[invs[3].ID] != models.InvitationStatusExpired {
		t.Errorf("leftover pending invitation = %s, want expired", statuses[invs[3].ID])
	}
}

func TestLateAcceptOnFullShift(t *testing.T) {
	fx := newInvitationFixture(t)
	alice := fx.addWorker(t, "Alice Botha")
	ben := fx.addWorker(t, "Ben van Wyk")
	shift := fx.addShift(t, 1)
	aliceInv := fx.invite(t, shift.ID, alice.ID)[0]

	if _, err := fx.invitationSvc.RespondToInvitation(aliceInv.ID, RespondToInvitationRequest{Decision: "accepted"}); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	// Ben is invited only after the shift filled, so his invitation is still
	// pending when his accept arrives.
	benInv := fx.invite(t, shift.ID, ben.ID)[0]

	responded, err := fx.invitationSvc.RespondToInvitation(benInv.ID, RespondToInvitationRequest{Decision: "accepted"})
	if !errors.Is(err, ErrInvitationExpired) {
		t.Fatalf("got %v, want ErrInvitationExpired", err)
	}
	if responded == nil || responded.Status != models.InvitationStatusExpired {
		t.Errorf("late accept should relabel the invitation expired, got %+v", responded)
	}

	updatedShift, _ := fx.shiftRepo.GetShiftByID(shift.ID)
	if len(updatedShift.AssignedWorkers) != 1 {
		t.Errorf("late accept must not over-assign: %v", updatedShift.AssignedWorkers)
	}
}

func TestRespondToTerminalInvitation(t *testing.T) {
	fx := newInvitationFixture(t)
	worker := fx.addWorker(t, "Alice Botha")
	shift := fx.addShift(t, 2)
	inv := fx.invite(t, shift.ID, worker.ID)[0]

	if _, err := fx.invitationSvc.RespondToInvitation(inv.ID, RespondToInvitationRequest{Decision: "declined"}); err != nil {
		t.Fatalf("decline: %v", err)
	}
	_, err := fx.invitationSvc.RespondToInvitation(inv.ID, RespondToInvitationRequest{Decision: "accepted"})
	if !errors.Is(err, ErrInvitationAlreadyResponded) {
		t.Errorf("got %v, want ErrInvitationAlreadyResponded", err)
	}
}

func TestRespondInvalidDecision(t *testing.T) {
	fx := newInvitationFixture(t)
	worker := fx.addWorker(t, "Alice Botha")
	shift := fx.addShift(t, 2)
	inv := fx.invite(t, shift.ID, worker.ID)[0]

	_, err := fx.invitationSvc.RespondToInvitation(inv.ID, RespondToInvitationRequest{Decision: "maybe"})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("got %v, want ErrInvalidDecision", err)
	}
	_, err = fx.invitationSvc.RespondToInvitation(inv.ID, RespondToInvitationRequest{Decision: "pending"})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("decision 'pending' accepted: %v", err)
	}
}

func TestConcurrentAcceptsNeverOverAssign(t *testing.T) {
	fx := newInvitationFixture(t)
	shift := fx.addShift(t, 2)

	workerIDs := make([]int64, 0, 8)
	for i := 0; i < 8; i++ {
		workerIDs = append(workerIDs, fx.addWorker(t, "Worker").ID)
	}
	invs := fx.invite(t, shift.ID, workerIDs...)

	var wg sync.WaitGroup
	for _, inv := range invs {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			// Late responders legitimately get expired or already-responded.
			_, _ = fx.invitationSvc.RespondToInvitation(id, RespondToInvitationRequest{Decision: "accepted"})
		}(inv.ID)
	}
	wg.Wait()

	updatedShift, _ := fx.shiftRepo.GetShiftByID(shift.ID)
	if len(updatedShift.AssignedWorkers) != shift.RequiredWorkers {
		t.Fatalf("assigned %d workers, want exactly %d", len(updatedShift.AssignedWorkers), shift.RequiredWorkers)
	}
	if updatedShift.Status != models.ShiftStatusFull {
		t.Errorf("shift status = %s, want full", updatedShift.Status)
	}

	all, _ := fx.invitationRepo.GetByShift(shift.ID)
	accepted := 0
	for _, inv := range all {
		switch inv.Status {
		case models.InvitationStatusAccepted:
			accepted++
		case models.InvitationStatusPending:
			t.Errorf("invitation %d still pending after the shift filled", inv.ID)
		}
	}
	if accepted != len(updatedShift.AssignedWorkers) {
		t.Errorf("accepted invitations (%d) != assigned workers (%d)", accepted, len(updatedShift.AssignedWorkers))
	}
}
