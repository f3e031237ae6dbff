package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/entity"
)

// ChatMessage is one persisted message in a meeting's room. The realtime
// fan-out lives outside this service; only the data path is here.
type ChatMessage struct {
	MeetingID uuid.UUID `db:"meeting_id" json:"meeting_id"`
	SenderID  uuid.UUID `db:"sender_id" json:"sender_id"`
	Content   string    `db:"content" json:"content"`
	entity.BaseEntity
}

// ChatMessageWithSender joins the sender profile for message listings.
type ChatMessageWithSender struct {
	ChatMessage
	SenderNickname string  `db:"sender_nickname" json:"sender_nickname"`
	SenderImage    *string `db:"sender_image" json:"sender_image,omitempty"`
}

// ChatRoomRow is one row of the caller's room list.
type ChatRoomRow struct {
	MeetingID       uuid.UUID  `db:"meeting_id" json:"meeting_id"`
	Title           string     `db:"title" json:"title"`
	ImageURL        *string    `db:"image_url" json:"image_url,omitempty"`
	MemberCount     int        `db:"member_count" json:"member_count"`
	LastMessage     *string    `db:"last_message" json:"last_message,omitempty"`
	LastMessageTime *time.Time `db:"last_message_time" json:"last_message_time,omitempty"`
}
