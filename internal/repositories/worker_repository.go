package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"olivemind_backend/internal/models"
)

// WorkerRepository defines the interface for worker-related database operations.
type WorkerRepository interface {
	CreateWorker(worker *models.Worker) (*models.Worker, error)
	GetWorkerByID(id int64) (*models.Worker, error)
	GetAllWorkers() ([]models.Worker, error)
	UpdateWorker(worker *models.Worker) (*models.Worker, error)
}

type workerRepository struct {
	db *sql.DB
}

// NewWorkerRepository creates a new instance of WorkerRepository.
func NewWorkerRepository(db *sql.DB) WorkerRepository {
	return &workerRepository{db: db}
}

const workerColumns = `id, full_name, phone_number, area, is_active, created_at, updated_at`

func scanWorkerRow(row scanner) (*models.Worker, error) {
	var worker models.Worker
	err := row.Scan(&worker.ID, &worker.FullName, &worker.PhoneNumber, &worker.Area, &worker.IsActive, &worker.CreatedAt, &worker.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning worker: %v", ErrDatabaseError, err)
	}
	return &worker, nil
}

func (r *workerRepository) CreateWorker(worker *models.Worker) (*models.Worker, error) {
	query := `INSERT INTO workers (full_name, phone_number, area, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING ` + workerColumns

	currentTime := time.Now()
	return scanWorkerRow(r.db.QueryRow(query, worker.FullName, worker.PhoneNumber, worker.Area, worker.IsActive, currentTime, currentTime))
}

func (r *workerRepository) GetWorkerByID(id int64) (*models.Worker, error) {
	return scanWorkerRow(r.db.QueryRow(`SELECT `+workerColumns+` FROM workers WHERE id = $1`, id))
}

func (r *workerRepository) GetAllWorkers() ([]models.Worker, error) {
	rows, err := r.db.Query(`SELECT ` + workerColumns + ` FROM workers ORDER BY full_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying workers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	workers := []models.Worker{}
	for rows.Next() {
		worker, err := scanWorkerRow(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *worker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating workers: %v", ErrDatabaseError, err)
	}
	return workers, nil
}

func (r *workerRepository) UpdateWorker(worker *models.Worker) (*models.Worker, error) {
	query := `UPDATE workers
	          SET full_name = $1, phone_number = $2, area = $3, is_active = $4, updated_at = $5
	          WHERE id = $6
	          RETURNING ` + workerColumns
	return scanWorkerRow(r.db.QueryRow(query, worker.FullName, worker.PhoneNumber, worker.Area, worker.IsActive, time.Now(), worker.ID))
}
