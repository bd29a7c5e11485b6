package models

import "time"

// BriefStatus defines the type for work brief statuses
type BriefStatus string

const (
	BriefStatusDraft     BriefStatus = "draft"
	BriefStatusPublished BriefStatus = "published"
)

// IsValidBriefStatus checks if the provided status string is a valid BriefStatus.
func IsValidBriefStatus(status string) bool {
	switch BriefStatus(status) {
	case BriefStatusDraft, BriefStatusPublished:
		return true
	}
	return false
}

// TestQuestion is a single multiple-choice question inside a work brief test.
// Stored as part of the brief's test_questions JSONB column.
type TestQuestion struct {
	ID            int64    `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   *string  `json:"explanation,omitempty"`
}

// WorkBrief is the training package attached to a shift: video, brand
// information and a short test workers complete before the shift.
type WorkBrief struct {
	ID               int64          `json:"id" db:"id"`
	ShiftID          int64          `json:"shift_id" db:"shift_id"`
	Title            string         `json:"title" db:"title"`
	BrandName        string         `json:"brand_name" db:"brand_name"`
	Description      *string        `json:"description,omitempty" db:"description"`
	TrainingVideoURL *string        `json:"training_video_url,omitempty" db:"training_video_url"`
	VideoDuration    *int           `json:"video_duration,omitempty" db:"video_duration"` // minutes
	VideoDescription *string        `json:"video_description,omitempty" db:"video_description"`
	BrandInformation *string        `json:"brand_information,omitempty" db:"brand_information"`
	TestQuestions    []TestQuestion `json:"test_questions" db:"test_questions"`
	PassingScore     int            `json:"passing_score" db:"passing_score"` // percentage required to pass
	MaxAttempts      int            `json:"max_attempts" db:"max_attempts"`
	Status           BriefStatus    `json:"status" db:"status"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}
