package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationItemResponse struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Type           string    `json:"type"`
	MeetingID      uuid.UUID `json:"meeting_id"`
	MeetingName    string    `json:"meeting_name"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

type MarkAsReadRequest struct {
	IDs []string `json:"ids" validate:"required"`
}
