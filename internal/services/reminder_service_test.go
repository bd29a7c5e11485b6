package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"olivemind_backend/internal/models"
	"olivemind_backend/internal/repositories"
)

type sentMessage struct {
	workerID int64
	message  string
}

type fakeSender struct {
	sent    []sentMessage
	failFor map[int64]bool
}

func (f *fakeSender) SendMessage(workerID int64, message string) error {
	if f.failFor[workerID] {
		return errors.New("gateway unavailable")
	}
	f.sent = append(f.sent, sentMessage{workerID: workerID, message: message})
	return nil
}

type reminderFixture struct {
	svc          *reminderService
	reminderRepo repositories.ReminderRepository
	workerRepo   repositories.WorkerRepository
	sender       *fakeSender
}

func newReminderFixture(t *testing.T, now time.Time) *reminderFixture {
	t.Helper()
	reminderRepo := repositories.NewMemoryReminderRepository()
	workerRepo := repositories.NewMemoryWorkerRepository()
	sender := &fakeSender{failFor: map[int64]bool{}}
	svc := NewReminderService(reminderRepo, workerRepo, sender).(*reminderService)
	svc.nowFn = func() time.Time { return now }
	return &reminderFixture{
		svc:          svc,
		reminderRepo: reminderRepo,
		workerRepo:   workerRepo,
		sender:       sender,
	}
}

func (f *reminderFixture) addWorker(t *testing.T, name string) *models.Worker {
	t.Helper()
	worker, err := f.workerRepo.CreateWorker(&models.Worker{FullName: name, IsActive: true})
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}
	return worker
}

func testShift(start, end time.Time) *models.Shift {
	dressCode := "Black golf shirt and chinos"
	photoReqs := "Take photos of the stand setup before the shift starts"
	return &models.Shift{
		ID:                1,
		Title:             "In-store Tasting",
		BrandName:         "Karoo Springs",
		Location:          "Checkers Constantia",
		StartDatetime:     start,
		EndDatetime:       end,
		RequiredWorkers:   2,
		AssignedWorkers:   []int64{},
		InvitedWorkers:    []int64{},
		CallTimeMinutes:   30,
		DressCode:         &dressCode,
		PhotoRequirements: &photoReqs,
		Status:            models.ShiftStatusPublished,
	}
}

func TestCalculateReminderTimes(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Johannesburg")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	fx := newReminderFixture(t, time.Date(2026, 9, 1, 8, 0, 0, 0, loc))

	cases := []struct {
		name          string
		start         time.Time
		wantDayBefore time.Time
		wantShiftDay  time.Time
	}{
		{
			name:          "afternoon start gets 4 hour lead",
			start:         time.Date(2026, 9, 10, 14, 0, 0, 0, loc),
			wantDayBefore: time.Date(2026, 9, 9, 18, 0, 0, 0, loc),
			wantShiftDay:  time.Date(2026, 9, 10, 10, 0, 0, 0, loc),
		},
		{
			name:          "morning start gets 2 hour lead",
			start:         time.Date(2026, 9, 10, 9, 0, 0, 0, loc),
			wantDayBefore: time.Date(2026, 9, 9, 18, 0, 0, 0, loc),
			wantShiftDay:  time.Date(2026, 9, 10, 7, 0, 0, 0, loc),
		},
		{
			name:          "11:00 exactly counts as late start",
			start:         time.Date(2026, 9, 10, 11, 0, 0, 0, loc),
			wantDayBefore: time.Date(2026, 9, 9, 18, 0, 0, 0, loc),
			wantShiftDay:  time.Date(2026, 9, 10, 7, 0, 0, 0, loc),
		},
		{
			name:          "10:59 still counts as early start",
			start:         time.Date(2026, 9, 10, 10, 59, 0, 0, loc),
			wantDayBefore: time.Date(2026, 9, 9, 18, 0, 0, 0, loc),
			wantShiftDay:  time.Date(2026, 9, 10, 8, 59, 0, 0, loc),
		},
		{
			name:          "first of month rolls the day-before into the prior month",
			start:         time.Date(2026, 10, 1, 9, 0, 0, 0, loc),
			wantDayBefore: time.Date(2026, 9, 30, 18, 0, 0, 0, loc),
			wantShiftDay:  time.Date(2026, 10, 1, 7, 0, 0, 0, loc),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fx.svc.CalculateReminderTimes(tc.start)
			if !got.DayBefore.Equal(tc.wantDayBefore) {
				t.Errorf("DayBefore = %v, want %v", got.DayBefore, tc.wantDayBefore)
			}
			if !got.ShiftDay.Equal(tc.wantShiftDay) {
				t.Errorf("ShiftDay = %v, want %v", got.ShiftDay, tc.wantShiftDay)
			}
		})
	}

	// Determinism: same input, same output.
	start := time.Date(2026, 9, 10, 14, 0, 0, 0, loc)
	first := fx.svc.CalculateReminderTimes(start)
	second := fx.svc.CalculateReminderTimes(start)
	if !first.DayBefore.Equal(second.DayBefore) || !first.ShiftDay.Equal(second.ShiftDay) {
		t.Error("CalculateReminderTimes is not deterministic")
	}
}

func TestGenerateReminderMessageDayBefore(t *testing.T) {
	fx := newReminderFixture(t, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))
	worker := &models.Worker{ID: 1, FullName: "Thandi Mokoena"}
	shift := testShift(
		time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 15, 30, 0, 0, time.UTC),
	)

	msg := fx.svc.GenerateReminderMessage(shift, worker, models.ReminderTypeDayBefore)

	wantFragments := []string{
		"*Work Reminder - Tomorrow*",
		"Hello Thandi Mokoena,",
		"*Title:* In-store Tasting",
		"*Brand:* Karoo Springs",
		"*Location:* Checkers Constantia",
		"*Date:* Thursday 10 September 2026",
		"*Time:* 09:00 - 15:30 (6.5 hours)",
		"*Call Time:* 30 minutes before start time",
		"*Dress Code:* Black golf shirt and chinos",
		"• Take photos of the stand setup before the shift starts",
		"• Arrive 30 minutes early for call time",
		"Olive Mind Marketing Team",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(msg, fragment) {
			t.Errorf("day-before message missing %q\nmessage:\n%s", fragment, msg)
		}
	}
}

func TestGenerateReminderMessageShiftDay(t *testing.T) {
	fx := newReminderFixture(t, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))
	worker := &models.Worker{ID: 1, FullName: "Sipho Dlamini"}
	shift := testShift(
		time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC),
	)

	msg := fx.svc.GenerateReminderMessage(shift, worker, models.ReminderTypeShiftDay)

	wantFragments := []string{
		"*Work Shift Today - Check-in*",
		"Hello Sipho Dlamini,",
		"*Today's Shift:*",
		"*Time:* 14:00 - 20:00",
		"Please confirm you're ready and on your way.",
		"Olive Mind Marketing Team",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(msg, fragment) {
			t.Errorf("shift-day message missing %q\nmessage:\n%s", fragment, msg)
		}
	}
	if strings.Contains(msg, "*Date:*") {
		t.Error("shift-day message should not carry a date line")
	}
}

func TestDurationFormattingDropsTrailingZero(t *testing.T) {
	fx := newReminderFixture(t, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC))
	worker := &models.Worker{ID: 1, FullName: "Lerato Nkosi"}
	shift := testShift(
		time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC),
	)

	msg := fx.svc.GenerateReminderMessage(shift, worker, models.ReminderTypeDayBefore)
	if !strings.Contains(msg, "(6 hours)") {
		t.Errorf("want whole-hour duration rendered as '6', message:\n%s", msg)
	}
	if strings.Contains(msg, "6.0") {
		t.Error("whole-hour duration must not carry a trailing zero")
	}
}

func TestScheduleRemindersForShift(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	fx := newReminderFixture(t, now)
	alice := fx.addWorker(t, "Alice Botha")
	ben := fx.addWorker(t, "Ben van Wyk")
	shift := testShift(
		time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC),
	)

	// Unknown worker IDs are skipped without failing the pass.
	if err := fx.svc.ScheduleRemindersForShift(shift, []int64{alice.ID, ben.ID, 999}); err != nil {
		t.Fatalf("ScheduleRemindersForShift: %v", err)
	}

	reminders, err := fx.reminderRepo.GetByShift(shift.ID)
	if err != nil {
		t.Fatalf("GetByShift: %v", err)
	}
	if len(reminders) != 4 {
		t.Fatalf("got %d reminders, want 4 (two per known worker)", len(reminders))
	}
	for _, r := range reminders {
		if r.Status != models.ReminderStatusScheduled {
			t.Errorf("reminder %d status = %s, want scheduled", r.ID, r.Status)
		}
		if r.Message == "" {
			t.Errorf("reminder %d has an empty message", r.ID)
		}
	}

	// Rescheduling replaces rather than accumulates.
	if err := fx.svc.ScheduleRemindersForShift(shift, []int64{alice.ID, ben.ID}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	reminders, _ = fx.reminderRepo.GetByShift(shift.ID)
	if len(reminders) != 4 {
		t.Fatalf("after reschedule got %d reminders, want 4", len(reminders))
	}
}

func TestScheduleRemindersSkipsPastFireTimes(t *testing.T) {
	// It is already the morning of the shift: the day-before slot has passed.
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	fx := newReminderFixture(t, now)
	worker := fx.addWorker(t, "Zanele Khumalo")
	shift := testShift(
		time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC),
	)

	if err := fx.svc.ScheduleRemindersForShift(shift, []int64{worker.ID}); err != nil {
		t.Fatalf("ScheduleRemindersForShift: %v", err)
	}

	reminders, _ := fx.reminderRepo.GetByShift(shift.ID)
	if len(reminders) != 1 {
		t.Fatalf("got %d reminders, want only the shift-day one", len(reminders))
	}
	if reminders[0].ReminderType != models.ReminderTypeShiftDay {
		t.Errorf("reminder type = %s, want %s", reminders[0].ReminderType, models.ReminderTypeShiftDay)
	}
}

func TestProcessDueReminders(t *testing.T) {
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	fx := newReminderFixture(t, now)
	alice := fx.addWorker(t, "Alice Botha")
	ben := fx.addWorker(t, "Ben van Wyk")
	fx.sender.failFor[ben.ID] = true

	due1, _ := fx.reminderRepo.Create(1, alice.ID, models.ReminderTypeDayBefore, now.Add(-time.Hour), "msg a")
	due2, _ := fx.reminderRepo.Create(1, ben.ID, models.ReminderTypeDayBefore, now.Add(-time.Hour), "msg b")
	future, _ := fx.reminderRepo.Create(1, alice.ID, models.ReminderTypeShiftDay, now.Add(time.Hour), "msg c")

	sent, failed, err := fx.svc.ProcessDueReminders(now)
	if err != nil {
		t.Fatalf("ProcessDueReminders: %v", err)
	}
	if sent != 1 || failed != 1 {
		t.Fatalf("sent=%d failed=%d, want 1 and 1", sent, failed)
	}

	got1, _ := fx.reminderRepo.GetByShift(1)
	byID := map[int64]models.ShiftReminder{}
	for _, r := range got1 {
		byID[r.ID] = r
	}
	if byID[due1.ID].Status != models.ReminderStatusSent || byID[due1.ID].SentAt == nil {
		t.Errorf("delivered reminder not marked sent: %+v", byID[due1.ID])
	}
	if byID[due2.ID].Status != models.ReminderStatusFailed {
		t.Errorf("failed delivery not marked failed: %+v", byID[due2.ID])
	}
	if byID[future.ID].Status != models.ReminderStatusScheduled {
		t.Errorf("future reminder should stay scheduled: %+v", byID[future.ID])
	}

	// A second run finds nothing new: sent and failed reminders are final.
	sent, failed, err = fx.svc.ProcessDueReminders(now)
	if err != nil {
		t.Fatalf("second ProcessDueReminders: %v", err)
	}
	if sent != 0 || failed != 0 {
		t.Errorf("second run sent=%d failed=%d, want 0 and 0", sent, failed)
	}
}

func TestMarkReminderSentNotFound(t *testing.T) {
	fx := newReminderFixture(t, time.Now())
	if _, err := fx.svc.MarkReminderSent(42); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("got %v, want ErrReminderNotFound", err)
	}
}
