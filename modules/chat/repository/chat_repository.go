package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/database"
	coreEntity "github.com/moimo-team/moaclass-back/core/entity"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/core/params"
	"github.com/moimo-team/moaclass-back/modules/chat/entity"
)

// ChatRepository handles chat message database operations
type ChatRepository struct {
	DB database.Database
}

func NewChatRepository(db database.Database) *ChatRepository {
	return &ChatRepository{DB: db}
}

type ChatRepositoryInterface interface {
	Create(ctx context.Context, meetingID, senderID uuid.UUID, content string) (*entity.ChatMessage, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID, p params.QueryParams) (*coreEntity.Pagination[entity.ChatMessageWithSender], error)
	ListRooms(ctx context.Context, userID uuid.UUID) ([]entity.ChatRoomRow, error)
}

func (r *ChatRepository) Create(ctx context.Context, meetingID, senderID uuid.UUID, content string) (*entity.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (meeting_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, meeting_id, sender_id, content, created_at, updated_at
	`

	var msg entity.ChatMessage
	if err := r.DB.GetContext(ctx, &msg, query, meetingID, senderID, content); err != nil {
		logger.Error("ChatRepository:Create", err)
		return nil, err
	}
	return &msg, nil
}

// ListByMeeting pages a room's messages, newest first.
func (r *ChatRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID, p params.QueryParams) (*coreEntity.Pagination[entity.ChatMessageWithSender], error) {
	countQuery := `SELECT COUNT(*) FROM chat_messages WHERE meeting_id = $1`

	var total int
	if err := r.DB.GetContext(ctx, &total, countQuery, meetingID); err != nil {
		logger.Error("ChatRepository:ListByMeeting:Count", err)
		return nil, err
	}

	query := `
		SELECT cm.id, cm.meeting_id, cm.sender_id, cm.content, cm.created_at, cm.updated_at,
		       u.nickname AS sender_nickname, u.image_url AS sender_image
		FROM chat_messages cm
		JOIN users u ON u.id = cm.sender_id
		WHERE cm.meeting_id = $1
		ORDER BY cm.created_at DESC
		LIMIT $2 OFFSET $3
	`

	var messages []entity.ChatMessageWithSender
	if err := r.DB.SelectContext(ctx, &messages, query, meetingID, p.PageSize, p.Offset()); err != nil {
		logger.Error("ChatRepository:ListByMeeting", err)
		return nil, err
	}

	return coreEntity.NewPagination(messages, total, p.PageNumber, p.PageSize), nil
}

// ListRooms returns the meetings the user is an accepted member of, with
// the latest message and member count, most recent activity first.
func (r *ChatRepository) ListRooms(ctx context.Context, userID uuid.UUID) ([]entity.ChatRoomRow, error) {
	query := `
		SELECT m.id AS meeting_id, m.title, m.image_url,
		       (SELECT COUNT(*) FROM participations mp
		        WHERE mp.meeting_id = m.id AND mp.status = 'ACCEPTED') AS member_count,
		       lm.content AS last_message,
		       lm.created_at AS last_message_time
		FROM meetings m
		JOIN participations p ON p.meeting_id = m.id
		LEFT JOIN LATERAL (
			SELECT content, created_at FROM chat_messages
			WHERE meeting_id = m.id
			ORDER BY created_at DESC
			LIMIT 1
		) lm ON true
		WHERE p.user_id = $1 AND p.status = 'ACCEPTED' AND m.deleted = false
		ORDER BY lm.created_at DESC NULLS LAST, m.created_at DESC
	`

	var rooms []entity.ChatRoomRow
	if err := r.DB.SelectContext(ctx, &rooms, query, userID); err != nil {
		logger.Error("ChatRepository:ListRooms", err)
		return nil, err
	}
	return rooms, nil
}
