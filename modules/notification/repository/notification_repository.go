package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/entity"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/core/params"
	notifEntity "github.com/moimo-team/moaclass-back/modules/notification/entity"
)

type NotificationRepository struct {
	db database.Database
}

func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// NotificationRepositoryInterface defines the repository contract. The
// mutators take a database.Queryer so the participation engine can run them
// inside the same transaction as the participation/meeting writes.
type NotificationRepositoryInterface interface {
	Create(ctx context.Context, q database.Queryer, receiverID, senderID, meetingID uuid.UUID, notifType notifEntity.NotificationType) error
	CreateMany(ctx context.Context, q database.Queryer, notifications []notifEntity.Notification) error
	SetRequestRead(ctx context.Context, q database.Queryer, meetingID, hostID, applicantID uuid.UUID, read bool) error
	DeleteByType(ctx context.Context, q database.Queryer, meetingID, receiverID, senderID uuid.UUID, notifType notifEntity.NotificationType) error

	GetByReceiverID(ctx context.Context, receiverID uuid.UUID, params params.QueryParams) (*notifEntity.PaginatedNotificationEntity, error)
	CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error)
	MarkAsRead(ctx context.Context, receiverID uuid.UUID, ids []string) error
	MarkAllAsRead(ctx context.Context, receiverID uuid.UUID) error
}

func (r *NotificationRepository) Create(ctx context.Context, q database.Queryer, receiverID, senderID, meetingID uuid.UUID, notifType notifEntity.NotificationType) error {
	query := `
		INSERT INTO notifications (receiver_id, sender_id, meeting_id, type, is_read)
		VALUES ($1, $2, $3, $4, false)
	`
	if err := q.ExecContext(ctx, query, receiverID, senderID, meetingID, notifType); err != nil {
		logger.Error("NotificationRepository:Create:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) CreateMany(ctx context.Context, q database.Queryer, notifications []notifEntity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	query := `
		INSERT INTO notifications (receiver_id, sender_id, meeting_id, type, is_read)
		VALUES ($1, $2, $3, $4, false)
	`
	for _, n := range notifications {
		if err := q.ExecContext(ctx, query, n.ReceiverID, n.SenderID, n.MeetingID, n.Type); err != nil {
			logger.Error("NotificationRepository:CreateMany:Error:", err)
			return err
		}
	}
	return nil
}

// SetRequestRead flips the read flag on the original join-request
// notification for (meeting, applicant). read=true while a host decision
// stands, read=false once the decision is undone.
func (r *NotificationRepository) SetRequestRead(ctx context.Context, q database.Queryer, meetingID, hostID, applicantID uuid.UUID, read bool) error {
	query := `
		UPDATE notifications SET is_read = $1
		WHERE meeting_id = $2 AND receiver_id = $3 AND sender_id = $4 AND type = $5
	`
	err := q.ExecContext(ctx, query, read, meetingID, hostID, applicantID, notifEntity.TypeParticipationRequest)
	if err != nil {
		logger.Error("NotificationRepository:SetRequestRead:Error:", err)
		return err
	}
	return nil
}

// DeleteByType removes a now-stale decision notification so the receiver's
// feed never holds a contradictory pair after an undo.
func (r *NotificationRepository) DeleteByType(ctx context.Context, q database.Queryer, meetingID, receiverID, senderID uuid.UUID, notifType notifEntity.NotificationType) error {
	query := `
		DELETE FROM notifications
		WHERE meeting_id = $1 AND receiver_id = $2 AND sender_id = $3 AND type = $4
	`
	if err := q.ExecContext(ctx, query, meetingID, receiverID, senderID, notifType); err != nil {
		logger.Error("NotificationRepository:DeleteByType:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetByReceiverID(ctx context.Context, receiverID uuid.UUID, params params.QueryParams) (*notifEntity.PaginatedNotificationEntity, error) {
	var totalItems int
	err := r.db.GetContext(ctx, &totalItems, `SELECT COUNT(*) FROM notifications WHERE receiver_id = $1`, receiverID)
	if err != nil {
		logger.Error("NotificationRepository:GetByReceiverID:Count:Error:", err)
		return nil, err
	}

	query := `
		SELECT n.id, n.receiver_id, n.sender_id, n.meeting_id, n.type, n.is_read,
		       n.created_at, n.updated_at, m.title AS meeting_title
		FROM notifications n
		JOIN meetings m ON m.id = n.meeting_id
		WHERE n.receiver_id = $1
		ORDER BY n.is_read ASC, n.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var notifications []notifEntity.NotificationWithMeeting
	err = r.db.SelectContext(ctx, &notifications, query, receiverID, params.PageSize, params.Offset())
	if err != nil {
		logger.Error("NotificationRepository:GetByReceiverID:Select:Error:", err)
		return nil, err
	}

	return entity.NewPagination(notifications, totalItems, params.PageNumber, params.PageSize), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, receiverID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE receiver_id = $1 AND is_read = false`
	if err := r.db.GetContext(ctx, &count, query, receiverID); err != nil {
		logger.Error("NotificationRepository:CountUnread:Error:", err)
		return 0, err
	}
	return count, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, receiverID uuid.UUID, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = true WHERE receiver_id = ? AND id IN (?)`, receiverID, ids)
	if err != nil {
		return err
	}

	query = r.db.SQLx().Rebind(query)
	if err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error("NotificationRepository:MarkAsRead:Error:", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, receiverID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true WHERE receiver_id = $1`
	if err := r.db.ExecContext(ctx, query, receiverID); err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead:Error:", err)
		return err
	}
	return nil
}
