package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"olivemind_backend/internal/models"

	"github.com/lib/pq"
)

// BriefRepository defines the interface for work brief persistence.
// A shift carries at most one brief, so CreateBrief returns ErrDuplicateKey
// when the shift already has one.
type BriefRepository interface {
	CreateBrief(brief *models.WorkBrief) (*models.WorkBrief, error)
	GetBriefByID(id int64) (*models.WorkBrief, error)
	GetBriefByShift(shiftID int64) (*models.WorkBrief, error)
	GetBriefs() ([]models.WorkBrief, error)
	UpdateBrief(brief *models.WorkBrief) (*models.WorkBrief, error)
	DeleteBrief(id int64) error
}

type briefRepository struct {
	db *sql.DB
}

// NewBriefRepository creates a new instance of BriefRepository.
func NewBriefRepository(db *sql.DB) BriefRepository {
	return &briefRepository{db: db}
}

const briefColumns = `id, shift_id, title, brand_name, description, training_video_url, video_duration,
	    video_description, brand_information, test_questions, passing_score, max_attempts, status,
	    created_at, updated_at`

func scanBriefRow(row scanner) (*models.WorkBrief, error) {
	var brief models.WorkBrief
	var questionsJSON []byte

	err := row.Scan(&brief.ID, &brief.ShiftID, &brief.Title, &brief.BrandName, &brief.Description,
		&brief.TrainingVideoURL, &brief.VideoDuration, &brief.VideoDescription, &brief.BrandInformation,
		&questionsJSON, &brief.PassingScore, &brief.MaxAttempts, &brief.Status, &brief.CreatedAt, &brief.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning work brief: %v", ErrDatabaseError, err)
	}

	brief.TestQuestions = []models.TestQuestion{}
	if len(questionsJSON) > 0 {
		if err := json.Unmarshal(questionsJSON, &brief.TestQuestions); err != nil {
			return nil, fmt.Errorf("%w: decoding test questions for brief %d: %v", ErrDatabaseError, brief.ID, err)
		}
	}
	return &brief, nil
}

func marshalQuestions(questions []models.TestQuestion) ([]byte, error) {
	if questions == nil {
		questions = []models.TestQuestion{}
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding test questions: %v", ErrDatabaseError, err)
	}
	return data, nil
}

func (r *briefRepository) CreateBrief(brief *models.WorkBrief) (*models.WorkBrief, error) {
	questionsJSON, err := marshalQuestions(brief.TestQuestions)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO work_briefs (shift_id, title, brand_name, description, training_video_url,
	            video_duration, video_description, brand_information, test_questions, passing_score,
	            max_attempts, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING ` + briefColumns

	currentTime := time.Now()
	var created models.WorkBrief
	var createdJSON []byte
	err = r.db.QueryRow(query,
		brief.ShiftID, brief.Title, brief.BrandName, brief.Description, brief.TrainingVideoURL,
		brief.VideoDuration, brief.VideoDescription, brief.BrandInformation, questionsJSON,
		brief.PassingScore, brief.MaxAttempts, brief.Status, currentTime, currentTime,
	).Scan(&created.ID, &created.ShiftID, &created.Title, &created.BrandName, &created.Description,
		&created.TrainingVideoURL, &created.VideoDuration, &created.VideoDescription, &created.BrandInformation,
		&createdJSON, &created.PassingScore, &created.MaxAttempts, &created.Status, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return nil, fmt.Errorf("%w: shift %d already has a work brief", ErrDuplicateKey, brief.ShiftID)
			case "foreign_key_violation":
				return nil, fmt.Errorf("%w: shift %d not found", ErrNotFound, brief.ShiftID)
			}
		}
		return nil, fmt.Errorf("%w: creating work brief: %v", ErrDatabaseError, err)
	}

	created.TestQuestions = []models.TestQuestion{}
	if len(createdJSON) > 0 {
		if err := json.Unmarshal(createdJSON, &created.TestQuestions); err != nil {
			return nil, fmt.Errorf("%w: decoding test questions for brief %d: %v", ErrDatabaseError, created.ID, err)
		}
	}
	return &created, nil
}

func (r *briefRepository) GetBriefByID(id int64) (*models.WorkBrief, error) {
	return scanBriefRow(r.db.QueryRow(`SELECT `+briefColumns+` FROM work_briefs WHERE id = $1`, id))
}

func (r *briefRepository) GetBriefByShift(shiftID int64) (*models.WorkBrief, error) {
	return scanBriefRow(r.db.QueryRow(`SELECT `+briefColumns+` FROM work_briefs WHERE shift_id = $1`, shiftID))
}

func (r *briefRepository) GetBriefs() ([]models.WorkBrief, error) {
	rows, err := r.db.Query(`SELECT ` + briefColumns + ` FROM work_briefs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying work briefs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	briefs := []models.WorkBrief{}
	for rows.Next() {
		brief, err := scanBriefRow(rows)
		if err != nil {
			return nil, err
		}
		briefs = append(briefs, *brief)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating work briefs: %v", ErrDatabaseError, err)
	}
	return briefs, nil
}

func (r *briefRepository) UpdateBrief(brief *models.WorkBrief) (*models.WorkBrief, error) {
	questionsJSON, err := marshalQuestions(brief.TestQuestions)
	if err != nil {
		return nil, err
	}

	query := `UPDATE work_briefs
	          SET shift_id = $1, title = $2, brand_name = $3, description = $4, training_video_url = $5,
	              video_duration = $6, video_description = $7, brand_information = $8, test_questions = $9,
	              passing_score = $10, max_attempts = $11, status = $12, updated_at = $13
	          WHERE id = $14
	          RETURNING ` + briefColumns

	return scanBriefRow(r.db.QueryRow(query,
		brief.ShiftID, brief.Title, brief.BrandName, brief.Description, brief.TrainingVideoURL,
		brief.VideoDuration, brief.VideoDescription, brief.BrandInformation, questionsJSON,
		brief.PassingScore, brief.MaxAttempts, brief.Status, time.Now(), brief.ID,
	))
}

func (r *briefRepository) DeleteBrief(id int64) error {
	result, err := r.db.Exec(`DELETE FROM work_briefs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting work brief %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected after brief delete: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
