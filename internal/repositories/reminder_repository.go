package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"olivemind_backend/internal/models"
)

// ReminderRepository defines the interface for shift reminder persistence.
type ReminderRepository interface {
	Create(shiftID, workerID int64, reminderType models.ReminderType, scheduledFor time.Time, message string) (*models.ShiftReminder, error)
	GetByShift(shiftID int64) ([]models.ShiftReminder, error)
	GetByWorker(workerID int64) ([]models.ShiftReminder, error)
	// GetDue returns scheduled reminders whose fire-time is at or before asOf.
	GetDue(asOf time.Time) ([]models.ShiftReminder, error)
	// MarkSent transitions a reminder to sent and stamps sent_at.
	MarkSent(id int64) (*models.ShiftReminder, error)
	// MarkFailed records a delivery failure.
	MarkFailed(id int64) (*models.ShiftReminder, error)
	// DeleteByShift removes all reminders for the shift regardless of status.
	DeleteByShift(shiftID int64) error
}

type reminderRepository struct {
	db *sql.DB
}

// NewReminderRepository creates a new postgres-backed ReminderRepository.
func NewReminderRepository(db *sql.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

const reminderColumns = `id, shift_id, worker_id, reminder_type, scheduled_for, status, sent_at, message, created_at`

func scanReminderRow(row scanner) (*models.ShiftReminder, error) {
	var rem models.ShiftReminder
	var sentAt sql.NullTime

	err := row.Scan(&rem.ID, &rem.ShiftID, &rem.WorkerID, &rem.ReminderType, &rem.ScheduledFor, &rem.Status, &sentAt, &rem.Message, &rem.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning shift reminder: %v", ErrDatabaseError, err)
	}
	if sentAt.Valid {
		rem.SentAt = &sentAt.Time
	}
	return &rem, nil
}

func (r *reminderRepository) Create(shiftID, workerID int64, reminderType models.ReminderType, scheduledFor time.Time, message string) (*models.ShiftReminder, error) {
	query := `INSERT INTO shift_reminders (shift_id, worker_id, reminder_type, scheduled_for, status, message, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING ` + reminderColumns

	return scanReminderRow(r.db.QueryRow(query, shiftID, workerID, reminderType, scheduledFor, models.ReminderStatusScheduled, message, time.Now()))
}

func (r *reminderRepository) getMany(query string, args ...interface{}) ([]models.ShiftReminder, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shift reminders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	reminders := []models.ShiftReminder{}
	for rows.Next() {
		rem, err := scanReminderRow(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift reminders: %v", ErrDatabaseError, err)
	}
	return reminders, nil
}

func (r *reminderRepository) GetByShift(shiftID int64) ([]models.ShiftReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM shift_reminders WHERE shift_id = $1 ORDER BY scheduled_for ASC`
	return r.getMany(query, shiftID)
}

func (r *reminderRepository) GetByWorker(workerID int64) ([]models.ShiftReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM shift_reminders WHERE worker_id = $1 ORDER BY scheduled_for ASC`
	return r.getMany(query, workerID)
}

func (r *reminderRepository) GetDue(asOf time.Time) ([]models.ShiftReminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM shift_reminders
	          WHERE status = $1 AND scheduled_for <= $2
	          ORDER BY scheduled_for ASC`
	return r.getMany(query, models.ReminderStatusScheduled, asOf)
}

func (r *reminderRepository) MarkSent(id int64) (*models.ShiftReminder, error) {
	query := `UPDATE shift_reminders SET status = $1, sent_at = $2 WHERE id = $3
	          RETURNING ` + reminderColumns
	return scanReminderRow(r.db.QueryRow(query, models.ReminderStatusSent, time.Now(), id))
}

func (r *reminderRepository) MarkFailed(id int64) (*models.ShiftReminder, error) {
	query := `UPDATE shift_reminders SET status = $1 WHERE id = $2
	          RETURNING ` + reminderColumns
	return scanReminderRow(r.db.QueryRow(query, models.ReminderStatusFailed, id))
}

func (r *reminderRepository) DeleteByShift(shiftID int64) error {
	_, err := r.db.Exec(`DELETE FROM shift_reminders WHERE shift_id = $1`, shiftID)
	if err != nil {
		return fmt.Errorf("%w: deleting reminders for shift %d: %v", ErrDatabaseError, shiftID, err)
	}
	return nil
}
