package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type ChatMessageResponse struct {
	MessageID      uuid.UUID `json:"message_id"`
	MeetingID      uuid.UUID `json:"meeting_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	SenderNickname string    `json:"sender_nickname,omitempty"`
	SenderImage    *string   `json:"sender_image,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type ChatRoomResponse struct {
	MeetingID       uuid.UUID  `json:"meeting_id"`
	Title           string     `json:"title"`
	MeetingImage    *string    `json:"meeting_image,omitempty"`
	MemberCount     int        `json:"member_count"`
	LastMessage     *string    `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
}
