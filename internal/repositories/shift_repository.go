package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"olivemind_backend/internal/models"

	"github.com/lib/pq"
)

// ShiftFilters narrows the shift listing query.
type ShiftFilters struct {
	Status   *string
	Area     *string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// ShiftRepository defines the interface for shift-related database operations.
type ShiftRepository interface {
	CreateShift(shift *models.Shift) (*models.Shift, error)
	GetShiftByID(id int64) (*models.Shift, error)
	GetShifts(filters ShiftFilters) ([]models.Shift, int, error)
	UpdateShift(shift *models.Shift) (*models.Shift, error)
	DeleteShift(id int64) error
}

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new instance of ShiftRepository.
func NewShiftRepository(db *sql.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `id, title, description, brand_name, location, area, start_datetime, end_datetime,
	    required_workers, assigned_workers, invited_workers, hourly_rate, additional_fees,
	    call_time_minutes, dress_code, photo_requirements, promotion_details, special_instructions,
	    status, created_by, created_at, updated_at`

func scanShiftRow(row scanner, isList bool) (*models.Shift, int, error) {
	var shift models.Shift
	var assigned, invited pq.Int64Array
	var totalCount int

	scanDest := []interface{}{
		&shift.ID, &shift.Title, &shift.Description, &shift.BrandName, &shift.Location, &shift.Area,
		&shift.StartDatetime, &shift.EndDatetime, &shift.RequiredWorkers, &assigned, &invited,
		&shift.HourlyRate, &shift.AdditionalFees, &shift.CallTimeMinutes, &shift.DressCode,
		&shift.PhotoRequirements, &shift.PromotionDetails, &shift.SpecialInstructions,
		&shift.Status, &shift.CreatedBy, &shift.CreatedAt, &shift.UpdatedAt,
	}
	if isList {
		scanDest = append(scanDest, &totalCount)
	}

	err := row.Scan(scanDest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
	}

	shift.AssignedWorkers = []int64(assigned)
	shift.InvitedWorkers = []int64(invited)
	if shift.AssignedWorkers == nil {
		shift.AssignedWorkers = []int64{}
	}
	if shift.InvitedWorkers == nil {
		shift.InvitedWorkers = []int64{}
	}
	return &shift, totalCount, nil
}

func (r *shiftRepository) CreateShift(shift *models.Shift) (*models.Shift, error) {
	query := `INSERT INTO shifts (title, description, brand_name, location, area, start_datetime, end_datetime,
	            required_workers, assigned_workers, invited_workers, hourly_rate, additional_fees,
	            call_time_minutes, dress_code, photo_requirements, promotion_details, special_instructions,
	            status, created_by, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	          RETURNING ` + shiftColumns

	currentTime := time.Now()
	created, _, err := scanShiftRow(r.db.QueryRow(query,
		shift.Title, shift.Description, shift.BrandName, shift.Location, shift.Area,
		shift.StartDatetime, shift.EndDatetime, shift.RequiredWorkers,
		pq.Array(shift.AssignedWorkers), pq.Array(shift.InvitedWorkers),
		shift.HourlyRate, shift.AdditionalFees, shift.CallTimeMinutes,
		shift.DressCode, shift.PhotoRequirements, shift.PromotionDetails, shift.SpecialInstructions,
		shift.Status, shift.CreatedBy, currentTime, currentTime,
	), false)
	if err != nil {
		return nil, fmt.Errorf("creating shift: %w", err)
	}
	return created, nil
}

func (r *shiftRepository) GetShiftByID(id int64) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	shift, _, err := scanShiftRow(r.db.QueryRow(query, id), false)
	return shift, err
}

func (r *shiftRepository) GetShifts(filters ShiftFilters) ([]models.Shift, int, error) {
	shifts := []models.Shift{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + shiftColumns + `, COUNT(*) OVER() as total_count FROM shifts`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Area != nil && *filters.Area != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(area) = LOWER($%d)", argCount))
		args = append(args, *filters.Area)
		argCount++
	}
	if filters.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("start_datetime >= $%d", argCount))
		args = append(args, *filters.DateFrom)
		argCount++
	}
	if filters.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("start_datetime <= $%d", argCount))
		args = append(args, *filters.DateTo)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY start_datetime ASC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		shift, count, err := scanShiftRow(rows, true)
		if err != nil {
			return nil, 0, err
		}
		totalCount = count
		shifts = append(shifts, *shift)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating shifts: %v", ErrDatabaseError, err)
	}
	return shifts, totalCount, nil
}

func (r *shiftRepository) UpdateShift(shift *models.Shift) (*models.Shift, error) {
	query := `UPDATE shifts
	          SET title = $1, description = $2, brand_name = $3, location = $4, area = $5,
	              start_datetime = $6, end_datetime = $7, required_workers = $8,
	              assigned_workers = $9, invited_workers = $10, hourly_rate = $11, additional_fees = $12,
	              call_time_minutes = $13, dress_code = $14, photo_requirements = $15,
	              promotion_details = $16, special_instructions = $17, status = $18, updated_at = $19
	          WHERE id = $20
	          RETURNING ` + shiftColumns

	updated, _, err := scanShiftRow(r.db.QueryRow(query,
		shift.Title, shift.Description, shift.BrandName, shift.Location, shift.Area,
		shift.StartDatetime, shift.EndDatetime, shift.RequiredWorkers,
		pq.Array(shift.AssignedWorkers), pq.Array(shift.InvitedWorkers),
		shift.HourlyRate, shift.AdditionalFees, shift.CallTimeMinutes,
		shift.DressCode, shift.PhotoRequirements, shift.PromotionDetails, shift.SpecialInstructions,
		shift.Status, time.Now(), shift.ID,
	), false)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *shiftRepository) DeleteShift(id int64) error {
	result, err := r.db.Exec(`DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting shift %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected after shift delete: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
