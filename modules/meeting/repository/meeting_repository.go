package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/database"
	coreEntity "github.com/moimo-team/moaclass-back/core/entity"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/core/params"
	"github.com/moimo-team/moaclass-back/modules/meeting/entity"
)

const meetingColumns = `id, host_id, title, description, interest_id, address, latitude, longitude,
	       image_url, max_participants, current_participants, meeting_date, deleted, created_at, updated_at`

// MeetingRepository handles meeting database operations
type MeetingRepository struct {
	DB database.Database
}

// NewMeetingRepository creates a new repository instance
func NewMeetingRepository(db database.Database) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

// MeetingRepositoryInterface defines the repository contract. Methods
// taking a database.Queryer participate in the caller's transaction; the
// engine passes the transactional queryer so every read-check-write runs
// as one isolated unit.
type MeetingRepositoryInterface interface {
	Create(ctx context.Context, q database.Queryer, meeting *entity.Meeting) (*entity.Meeting, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error)
	GetByIDForUpdate(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Meeting, error)
	Update(ctx context.Context, q database.Queryer, meeting *entity.Meeting) error
	SetDeleted(ctx context.Context, q database.Queryer, id uuid.UUID) error
	AdjustOccupancy(ctx context.Context, q database.Queryer, id uuid.UUID, delta int) error

	List(ctx context.Context, filter entity.ListFilter, p params.QueryParams) (*coreEntity.Pagination[entity.MeetingWithInterest], error)
	Search(ctx context.Context, keyword string, p params.QueryParams) (*coreEntity.Pagination[entity.MeetingWithInterest], error)
	GetMyMeetings(ctx context.Context, userID uuid.UUID, filter entity.MyMeetingFilter, p params.QueryParams) (*coreEntity.Pagination[entity.MyMeetingRow], error)
}

// ===================== Writes =====================

func (r *MeetingRepository) Create(ctx context.Context, q database.Queryer, meeting *entity.Meeting) (*entity.Meeting, error) {
	query := `
		INSERT INTO meetings (host_id, title, description, interest_id, address, latitude, longitude,
		                      image_url, max_participants, current_participants, meeting_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + meetingColumns

	var created entity.Meeting
	err := q.GetContext(ctx, &created, query,
		meeting.HostID, meeting.Title, meeting.Description, meeting.InterestID,
		meeting.Address, meeting.Latitude, meeting.Longitude, meeting.ImageURL,
		meeting.MaxParticipants, meeting.CurrentParticipants, meeting.MeetingDate)
	if err != nil {
		logger.Error("MeetingRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *MeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Meeting, error) {
	return getMeeting(ctx, r.DB.GetContext, id, "")
}

// GetByIDForUpdate locks the meeting row for the duration of the caller's
// transaction. Capacity and occupancy read through this lock cannot change
// under a concurrent engine operation on the same meeting.
func (r *MeetingRepository) GetByIDForUpdate(ctx context.Context, q database.Queryer, id uuid.UUID) (*entity.Meeting, error) {
	return getMeeting(ctx, q.GetContext, id, " FOR UPDATE")
}

type getFunc func(ctx context.Context, dest any, query string, args ...any) error

func getMeeting(ctx context.Context, get getFunc, id uuid.UUID, suffix string) (*entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1` + suffix

	var meeting entity.Meeting
	err := get(ctx, &meeting, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("MeetingRepository:GetByID", err)
		return nil, err
	}

	return &meeting, nil
}

func (r *MeetingRepository) Update(ctx context.Context, q database.Queryer, meeting *entity.Meeting) error {
	query := `
		UPDATE meetings
		SET title = $2, description = $3, interest_id = $4, address = $5, latitude = $6,
		    longitude = $7, image_url = $8, max_participants = $9, meeting_date = $10, updated_at = NOW()
		WHERE id = $1
	`
	err := q.ExecContext(ctx, query,
		meeting.ID, meeting.Title, meeting.Description, meeting.InterestID, meeting.Address,
		meeting.Latitude, meeting.Longitude, meeting.ImageURL, meeting.MaxParticipants, meeting.MeetingDate)
	if err != nil {
		logger.Error("MeetingRepository:Update", err)
		return err
	}
	return nil
}

func (r *MeetingRepository) SetDeleted(ctx context.Context, q database.Queryer, id uuid.UUID) error {
	query := `UPDATE meetings SET deleted = true, updated_at = NOW() WHERE id = $1`
	if err := q.ExecContext(ctx, query, id); err != nil {
		logger.Error("MeetingRepository:SetDeleted", err)
		return err
	}
	return nil
}

// AdjustOccupancy moves the denormalized ACCEPTED counter. Only the
// participation engine calls this, always inside the transaction that
// changes the matching participation rows.
func (r *MeetingRepository) AdjustOccupancy(ctx context.Context, q database.Queryer, id uuid.UUID, delta int) error {
	query := `UPDATE meetings SET current_participants = current_participants + $2, updated_at = NOW() WHERE id = $1`
	if err := q.ExecContext(ctx, query, id, delta); err != nil {
		logger.Error("MeetingRepository:AdjustOccupancy", err)
		return err
	}
	return nil
}

// ===================== Listings =====================

func (r *MeetingRepository) List(ctx context.Context, filter entity.ListFilter, p params.QueryParams) (*coreEntity.Pagination[entity.MeetingWithInterest], error) {
	conditions := []string{"m.deleted = false"}
	args := []any{}

	if !filter.IncludeFinished {
		conditions = append(conditions, "m.meeting_date >= NOW()")
	}
	if filter.InterestID != nil {
		args = append(args, *filter.InterestID)
		conditions = append(conditions, fmt.Sprintf("m.interest_id = $%d", len(args)))
	}

	var orderBy string
	switch filter.Sort {
	case entity.SortUpdate:
		orderBy = "m.updated_at DESC"
	case entity.SortDeadline:
		orderBy = "m.meeting_date ASC"
	default:
		orderBy = "m.created_at DESC"
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var totalItems int
	countQuery := "SELECT COUNT(*) FROM meetings m " + where
	if err := r.DB.GetContext(ctx, &totalItems, countQuery, args...); err != nil {
		logger.Error("MeetingRepository:List:Count", err)
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.host_id, m.title, m.description, m.interest_id, m.address, m.latitude,
		       m.longitude, m.image_url, m.max_participants, m.current_participants,
		       m.meeting_date, m.deleted, m.created_at, m.updated_at, i.name AS interest_name
		FROM meetings m
		JOIN interests i ON i.id = m.interest_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, p.PageSize, p.Offset())

	var meetings []entity.MeetingWithInterest
	if err := r.DB.SelectContext(ctx, &meetings, query, args...); err != nil {
		logger.Error("MeetingRepository:List:Select", err)
		return nil, err
	}

	return coreEntity.NewPagination(meetings, totalItems, p.PageNumber, p.PageSize), nil
}

func (r *MeetingRepository) Search(ctx context.Context, keyword string, p params.QueryParams) (*coreEntity.Pagination[entity.MeetingWithInterest], error) {
	where := `
		WHERE m.deleted = false
		  AND m.meeting_date >= NOW()
		  AND (m.title ILIKE '%' || $1 || '%'
		       OR i.name ILIKE '%' || $1 || '%'
		       OR u.nickname ILIKE '%' || $1 || '%')
	`
	from := `
		FROM meetings m
		JOIN interests i ON i.id = m.interest_id
		JOIN users u ON u.id = m.host_id
	`

	var totalItems int
	if err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+from+where, keyword); err != nil {
		logger.Error("MeetingRepository:Search:Count", err)
		return nil, err
	}

	query := `
		SELECT m.id, m.host_id, m.title, m.description, m.interest_id, m.address, m.latitude,
		       m.longitude, m.image_url, m.max_participants, m.current_participants,
		       m.meeting_date, m.deleted, m.created_at, m.updated_at,
		       i.name AS interest_name, u.nickname AS host_nickname
	` + from + where + `
		ORDER BY m.meeting_date ASC
		LIMIT $2 OFFSET $3
	`

	var meetings []entity.MeetingWithInterest
	if err := r.DB.SelectContext(ctx, &meetings, query, keyword, p.PageSize, p.Offset()); err != nil {
		logger.Error("MeetingRepository:Search:Select", err)
		return nil, err
	}

	return coreEntity.NewPagination(meetings, totalItems, p.PageNumber, p.PageSize), nil
}

func (r *MeetingRepository) GetMyMeetings(ctx context.Context, userID uuid.UUID, filter entity.MyMeetingFilter, p params.QueryParams) (*coreEntity.Pagination[entity.MyMeetingRow], error) {
	conditions := []string{"m.deleted = false"}

	switch filter.View {
	case "hosted":
		conditions = append(conditions, "m.host_id = $1")
	case "joined":
		conditions = append(conditions, "m.host_id <> $1")
	}

	switch filter.Status {
	case "pending":
		conditions = append(conditions, "p.status = 'PENDING'")
	case "accepted":
		conditions = append(conditions, "p.status = 'ACCEPTED'", "m.meeting_date >= NOW()")
	case "completed":
		conditions = append(conditions, "p.status = 'ACCEPTED'", "m.meeting_date < NOW()")
	}

	from := `
		FROM meetings m
		JOIN participations p ON p.meeting_id = m.id AND p.user_id = $1
	`
	where := "WHERE " + strings.Join(conditions, " AND ")

	var totalItems int
	if err := r.DB.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+from+where, userID); err != nil {
		logger.Error("MeetingRepository:GetMyMeetings:Count", err)
		return nil, err
	}

	query := `
		SELECT m.id, m.host_id, m.title, m.description, m.interest_id, m.address, m.latitude,
		       m.longitude, m.image_url, m.max_participants, m.current_participants,
		       m.meeting_date, m.deleted, m.created_at, m.updated_at, p.status AS my_status
	` + from + where + `
		ORDER BY m.meeting_date DESC
		LIMIT $2 OFFSET $3
	`

	var rows []entity.MyMeetingRow
	if err := r.DB.SelectContext(ctx, &rows, query, userID, p.PageSize, p.Offset()); err != nil {
		logger.Error("MeetingRepository:GetMyMeetings:Select", err)
		return nil, err
	}

	return coreEntity.NewPagination(rows, totalItems, p.PageNumber, p.PageSize), nil
}
