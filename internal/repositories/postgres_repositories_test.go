package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"olivemind_backend/internal/models"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startTestDatabase spins up a disposable postgres container and applies the
// schema. Tests are skipped when no container runtime is available.
func startTestDatabase(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	dbContainer, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("olivemind_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("skipping: could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = dbContainer.Terminate(ctx)
	})

	connStr, err := dbContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../db_schema.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func seedWorker(t *testing.T, db *sql.DB, name string) *models.Worker {
	t.Helper()
	worker, err := NewWorkerRepository(db).CreateWorker(&models.Worker{FullName: name, IsActive: true})
	if err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	return worker
}

func seedShift(t *testing.T, db *sql.DB, requiredWorkers int) *models.Shift {
	t.Helper()
	start := time.Now().AddDate(0, 0, 7).Truncate(time.Second)
	shift, err := NewShiftRepository(db).CreateShift(&models.Shift{
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
		t.Fatalf("seed shift: %v", err)
	}
	return shift
}

func TestShiftRepositoryPostgres(t *testing.T) {
	db := startTestDatabase(t)
	repo := NewShiftRepository(db)
	worker := seedWorker(t, db, "Alice Botha")
	shift := seedShift(t, db, 2)

	fetched, err := repo.GetShiftByID(shift.ID)
	if err != nil {
		t.Fatalf("GetShiftByID: %v", err)
	}
	if fetched.Title != "Mall Activation" || fetched.Status != models.ShiftStatusPublished {
		t.Errorf("fetched shift mismatch: %+v", fetched)
	}
	if fetched.AssignedWorkers == nil || len(fetched.AssignedWorkers) != 0 {
		t.Errorf("empty array column should scan to empty slice, got %v", fetched.AssignedWorkers)
	}

	fetched.AssignedWorkers = []int64{worker.ID}
	fetched.InvitedWorkers = []int64{worker.ID}
	fetched.Status = models.ShiftStatusFull
	updated, err := repo.UpdateShift(fetched)
	if err != nil {
		t.Fatalf("UpdateShift: %v", err)
	}
	if len(updated.AssignedWorkers) != 1 || updated.AssignedWorkers[0] != worker.ID {
		t.Errorf("array column round trip failed: %v", updated.AssignedWorkers)
	}

	full := string(models.ShiftStatusFull)
	shifts, total, err := repo.GetShifts(ShiftFilters{Status: &full, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("GetShifts: %v", err)
	}
	if total != 1 || len(shifts) != 1 {
		t.Errorf("status filter returned %d/%d, want 1", len(shifts), total)
	}

	if err := repo.DeleteShift(shift.ID); err != nil {
		t.Fatalf("DeleteShift: %v", err)
	}
	if err := repo.DeleteShift(shift.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestInvitationRepositoryPostgres(t *testing.T) {
	db := startTestDatabase(t)
	repo := NewInvitationRepository(db)
	shift := seedShift(t, db, 2)
	alice := seedWorker(t, db, "Alice Botha")
	ben := seedWorker(t, db, "Ben van Wyk")
	carol := seedWorker(t, db, "Carol Naidoo")

	aliceInv, err := repo.Create(shift.ID, alice.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if aliceInv.Status != models.InvitationStatusPending || aliceInv.Token == "" {
		t.Errorf("new invitation: %+v", aliceInv)
	}
	benInv, _ := repo.Create(shift.ID, ben.ID)
	carolInv, _ := repo.Create(shift.ID, carol.ID)

	if _, err := repo.Create(shift.ID, 99999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown worker: got %v, want ErrNotFound", err)
	}

	accepted, err := repo.Respond(aliceInv.ID, models.InvitationStatusAccepted)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if accepted.Status != models.InvitationStatusAccepted || accepted.RespondedAt == nil {
		t.Errorf("accepted invitation: %+v", accepted)
	}

	if _, err := repo.Respond(aliceInv.ID, models.InvitationStatusDeclined); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("double respond: got %v, want ErrInvalidStatusTransition", err)
	}
	if _, err := repo.Respond(99999, models.InvitationStatusAccepted); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown invitation: got %v, want ErrNotFound", err)
	}

	if err := repo.ExpireMany(shift.ID, []int64{aliceInv.ID, benInv.ID}); err != nil {
		t.Fatalf("ExpireMany: %v", err)
	}
	all, err := repo.GetByShift(shift.ID)
	if err != nil {
		t.Fatalf("GetByShift: %v", err)
	}
	statuses := map[int64]models.InvitationStatus{}
	for _, inv := range all {
		statuses[inv.ID] = inv.Status
	}
	if statuses[aliceInv.ID] != models.InvitationStatusAccepted {
		t.Errorf("accepted invitation relabeled: %s", statuses[aliceInv.ID])
	}
	if statuses[benInv.ID] != models.InvitationStatusPending {
		t.Errorf("excluded invitation relabeled: %s", statuses[benInv.ID])
	}
	if statuses[carolInv.ID] != models.InvitationStatusExpired {
		t.Errorf("pending invitation = %s, want expired", statuses[carolInv.ID])
	}

	byWorker, err := repo.GetByWorker(alice.ID)
	if err != nil || len(byWorker) != 1 {
		t.Errorf("GetByWorker: %v, %v", byWorker, err)
	}
}

func TestReminderRepositoryPostgres(t *testing.T) {
	db := startTestDatabase(t)
	repo := NewReminderRepository(db)
	shift := seedShift(t, db, 2)
	worker := seedWorker(t, db, "Alice Botha")

	now := time.Now().Truncate(time.Second)
	past, err := repo.Create(shift.ID, worker.ID, models.ReminderTypeDayBefore, now.Add(-time.Hour), "past message")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	future, err := repo.Create(shift.ID, worker.ID, models.ReminderTypeShiftDay, now.Add(time.Hour), "future message")
	if err != nil {
		t.Fatalf("Create future: %v", err)
	}

	due, err := repo.GetDue(now)
	if err != nil {
		t.Fatalf("GetDue: %v", err)
	}
	if len(due) != 1 || due[0].ID != past.ID {
		t.Errorf("due = %+v, want only the past reminder", due)
	}

	sent, err := repo.MarkSent(past.ID)
	if err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if sent.Status != models.ReminderStatusSent || sent.SentAt == nil {
		t.Errorf("sent reminder: %+v", sent)
	}
	failed, err := repo.MarkFailed(future.ID)
	if err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	if failed.Status != models.ReminderStatusFailed {
		t.Errorf("failed reminder: %+v", failed)
	}

	if err := repo.DeleteByShift(shift.ID); err != nil {
		t.Fatalf("DeleteByShift: %v", err)
	}
	remaining, _ := repo.GetByShift(shift.ID)
	if len(remaining) != 0 {
		t.Errorf("reminders survived DeleteByShift: %v", remaining)
	}
}
