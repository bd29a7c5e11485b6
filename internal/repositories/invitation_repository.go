package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"olivemind_backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// InvitationRepository defines the interface for shift invitation persistence.
// Implementations exist for postgres and in-memory (tests).
type InvitationRepository interface {
	Create(shiftID, promoterID int64) (*models.ShiftInvitation, error)
	GetByID(id int64) (*models.ShiftInvitation, error)
	GetByShift(shiftID int64) ([]models.ShiftInvitation, error)
	GetByWorker(workerID int64) ([]models.ShiftInvitation, error)
	// Respond sets the invitation status and stamps responded_at.
	// Only pending invitations may be responded to.
	Respond(id int64, status models.InvitationStatus) (*models.ShiftInvitation, error)
	// ExpireMany expires every still-pending invitation on the shift whose id
	// is not in excludeIDs. Idempotent and order-independent.
	ExpireMany(shiftID int64, excludeIDs []int64) error
}

type invitationRepository struct {
	db *sql.DB
}

// NewInvitationRepository creates a new postgres-backed InvitationRepository.
func NewInvitationRepository(db *sql.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

const invitationColumns = `id, shift_id, promoter_id, status, token, invited_at, responded_at`

func scanInvitationRow(row scanner) (*models.ShiftInvitation, error) {
	var inv models.ShiftInvitation
	var respondedAt sql.NullTime

	err := row.Scan(&inv.ID, &inv.ShiftID, &inv.PromoterID, &inv.Status, &inv.Token, &inv.InvitedAt, &respondedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning shift invitation: %v", ErrDatabaseError, err)
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	return &inv, nil
}

func (r *invitationRepository) Create(shiftID, promoterID int64) (*models.ShiftInvitation, error) {
	query := `INSERT INTO shift_invitations (shift_id, promoter_id, status, token, invited_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING ` + invitationColumns

	var inv models.ShiftInvitation
	var respondedAt sql.NullTime
	token := uuid.NewString()
	err := r.db.QueryRow(query, shiftID, promoterID, models.InvitationStatusPending, token, time.Now()).
		Scan(&inv.ID, &inv.ShiftID, &inv.PromoterID, &inv.Status, &inv.Token, &inv.InvitedAt, &respondedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: shift %d or worker %d not found", ErrNotFound, shiftID, promoterID)
		}
		return nil, fmt.Errorf("%w: creating shift invitation: %v", ErrDatabaseError, err)
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	return &inv, nil
}

func (r *invitationRepository) GetByID(id int64) (*models.ShiftInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM shift_invitations WHERE id = $1`
	return scanInvitationRow(r.db.QueryRow(query, id))
}

func (r *invitationRepository) getMany(query string, arg interface{}) ([]models.ShiftInvitation, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("%w: querying shift invitations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	invitations := []models.ShiftInvitation{}
	for rows.Next() {
		inv, err := scanInvitationRow(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift invitations: %v", ErrDatabaseError, err)
	}
	return invitations, nil
}

func (r *invitationRepository) GetByShift(shiftID int64) ([]models.ShiftInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM shift_invitations WHERE shift_id = $1 ORDER BY invited_at ASC`
	return r.getMany(query, shiftID)
}

func (r *invitationRepository) GetByWorker(workerID int64) ([]models.ShiftInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM shift_invitations WHERE promoter_id = $1 ORDER BY invited_at DESC`
	return r.getMany(query, workerID)
}

func (r *invitationRepository) Respond(id int64, status models.InvitationStatus) (*models.ShiftInvitation, error) {
	// The status predicate enforces pending -> terminal at the store level, so a
	// lost race surfaces as ErrInvalidStatusTransition instead of a silent overwrite.
	query := `UPDATE shift_invitations
	          SET status = $1, responded_at = $2
	          WHERE id = $3 AND status = $4
	          RETURNING ` + invitationColumns

	inv, err := scanInvitationRow(r.db.QueryRow(query, status, time.Now(), id, models.InvitationStatusPending))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Distinguish "no such invitation" from "already responded".
			if _, getErr := r.GetByID(id); getErr == nil {
				return nil, ErrInvalidStatusTransition
			}
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ExpireMany(shiftID int64, excludeIDs []int64) error {
	query := `UPDATE shift_invitations
	          SET status = $1, responded_at = $2
	          WHERE shift_id = $3 AND status = $4 AND NOT (id = ANY($5))`

	_, err := r.db.Exec(query, models.InvitationStatusExpired, time.Now(), shiftID, models.InvitationStatusPending, pq.Array(excludeIDs))
	if err != nil {
		return fmt.Errorf("%w: expiring invitations for shift %d: %v", ErrDatabaseError, shiftID, err)
	}
	return nil
}
