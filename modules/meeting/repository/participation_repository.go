package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/modules/meeting/entity"
)

const participationColumns = `id, meeting_id, user_id, status, is_host, created_at, updated_at`

// ParticipationRepository handles participation database operations
type ParticipationRepository struct {
	DB database.Database
}

func NewParticipationRepository(db database.Database) *ParticipationRepository {
	return &ParticipationRepository{DB: db}
}

// ParticipationRepositoryInterface defines the repository contract. All
// mutators and the status reads used by engine preconditions take a
// database.Queryer so they share the engine's transaction.
type ParticipationRepositoryInterface interface {
	Create(ctx context.Context, q database.Queryer, meetingID, userID uuid.UUID, status entity.ParticipationStatus, isHost bool) error
	GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Participation, error)
	GetByUserAndMeeting(ctx context.Context, q database.Queryer, userID, meetingID uuid.UUID) (*entity.Participation, error)
	UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.ParticipationStatus) error
	UpdateStatusMany(ctx context.Context, q database.Queryer, ids []uuid.UUID, status entity.ParticipationStatus) error
	ListPending(ctx context.Context, q database.Queryer, meetingID uuid.UUID) ([]entity.Participation, error)
	ListAcceptedUserIDs(ctx context.Context, q database.Queryer, meetingID uuid.UUID) ([]uuid.UUID, error)

	ListApplicants(ctx context.Context, meetingID uuid.UUID) ([]entity.ApplicantRow, error)
	ListParticipants(ctx context.Context, meetingID uuid.UUID) ([]entity.ParticipantRow, error)
	IsParticipant(ctx context.Context, userID, meetingID uuid.UUID) (bool, error)
}

func (r *ParticipationRepository) Create(ctx context.Context, q database.Queryer, meetingID, userID uuid.UUID, status entity.ParticipationStatus, isHost bool) error {
	query := `
		INSERT INTO participations (meeting_id, user_id, status, is_host)
		VALUES ($1, $2, $3, $4)
	`
	if err := q.ExecContext(ctx, query, meetingID, userID, status, isHost); err != nil {
		logger.Error("ParticipationRepository:Create", err)
		return err
	}
	return nil
}

func (r *ParticipationRepository) GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE id = $1`

	var p entity.Participation
	if err := q.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ParticipationRepository:GetByID", err)
		return nil, err
	}
	return &p, nil
}

func (r *ParticipationRepository) GetByUserAndMeeting(ctx context.Context, q database.Queryer, userID, meetingID uuid.UUID) (*entity.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE user_id = $1 AND meeting_id = $2`

	var p entity.Participation
	if err := q.GetContext(ctx, &p, query, userID, meetingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ParticipationRepository:GetByUserAndMeeting", err)
		return nil, err
	}
	return &p, nil
}

func (r *ParticipationRepository) UpdateStatus(ctx context.Context, q database.Queryer, id uuid.UUID, status entity.ParticipationStatus) error {
	query := `UPDATE participations SET status = $2, updated_at = NOW() WHERE id = $1`
	if err := q.ExecContext(ctx, query, id, status); err != nil {
		logger.Error("ParticipationRepository:UpdateStatus", err)
		return err
	}
	return nil
}

func (r *ParticipationRepository) UpdateStatusMany(ctx context.Context, q database.Queryer, ids []uuid.UUID, status entity.ParticipationStatus) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE participations SET status = ?, updated_at = NOW() WHERE id IN (?)`, status, ids)
	if err != nil {
		return err
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	if err := q.ExecContext(ctx, query, args...); err != nil {
		logger.Error("ParticipationRepository:UpdateStatusMany", err)
		return err
	}
	return nil
}

func (r *ParticipationRepository) ListPending(ctx context.Context, q database.Queryer, meetingID uuid.UUID) ([]entity.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE meeting_id = $1 AND status = $2 ORDER BY created_at`

	var pendings []entity.Participation
	if err := q.SelectContext(ctx, &pendings, query, meetingID, entity.StatusPending); err != nil {
		logger.Error("ParticipationRepository:ListPending", err)
		return nil, err
	}
	return pendings, nil
}

// ListAcceptedUserIDs returns the accepted non-host member ids, used for
// the soft-delete notification fan-out inside the delete transaction.
func (r *ParticipationRepository) ListAcceptedUserIDs(ctx context.Context, q database.Queryer, meetingID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM participations WHERE meeting_id = $1 AND status = $2 AND is_host = false`

	var ids []uuid.UUID
	if err := q.SelectContext(ctx, &ids, query, meetingID, entity.StatusAccepted); err != nil {
		logger.Error("ParticipationRepository:ListAcceptedUserIDs", err)
		return nil, err
	}
	return ids, nil
}

func (r *ParticipationRepository) ListApplicants(ctx context.Context, meetingID uuid.UUID) ([]entity.ApplicantRow, error) {
	query := `
		SELECT p.id AS participation_id, u.id AS user_id, u.nickname, u.bio, u.image_url, p.status
		FROM participations p
		JOIN users u ON u.id = p.user_id
		WHERE p.meeting_id = $1 AND p.is_host = false
		ORDER BY p.created_at DESC
	`

	var applicants []entity.ApplicantRow
	if err := r.DB.SelectContext(ctx, &applicants, query, meetingID); err != nil {
		logger.Error("ParticipationRepository:ListApplicants", err)
		return nil, err
	}
	return applicants, nil
}

// ListParticipants returns the accepted members with the host first.
func (r *ParticipationRepository) ListParticipants(ctx context.Context, meetingID uuid.UUID) ([]entity.ParticipantRow, error) {
	query := `
		SELECT u.id AS user_id, u.nickname, u.bio, u.image_url, p.is_host
		FROM participations p
		JOIN users u ON u.id = p.user_id
		WHERE p.meeting_id = $1 AND p.status = $2
		ORDER BY p.is_host DESC, p.created_at ASC
	`

	var participants []entity.ParticipantRow
	if err := r.DB.SelectContext(ctx, &participants, query, meetingID, entity.StatusAccepted); err != nil {
		logger.Error("ParticipationRepository:ListParticipants", err)
		return nil, err
	}
	return participants, nil
}

// IsParticipant reports whether the user holds an ACCEPTED participation in
// the meeting (the host included). The chat module gates on this.
func (r *ParticipationRepository) IsParticipant(ctx context.Context, userID, meetingID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM participations WHERE user_id = $1 AND meeting_id = $2 AND status = $3)`

	var exists bool
	if err := r.DB.GetContext(ctx, &exists, query, userID, meetingID, entity.StatusAccepted); err != nil {
		logger.Error("ParticipationRepository:IsParticipant", err)
		return false, err
	}
	return exists, nil
}
