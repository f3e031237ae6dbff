package entity

import (
	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/entity"
)

// NotificationType enumerates the events the participation engine records.
type NotificationType string

const (
	TypeParticipationRequest   NotificationType = "PARTICIPATION_REQUEST"
	TypeParticipationAccepted  NotificationType = "PARTICIPATION_ACCEPTED"
	TypeParticipationRejected  NotificationType = "PARTICIPATION_REJECTED"
	TypeParticipationCancelled NotificationType = "PARTICIPATION_CANCELLED"
	TypeMeetingDeleted         NotificationType = "MEETING_DELETED"
)

// Notification is an append-only fact about a meeting event. Rows are only
// written by the participation engine and the meeting soft-delete path; the
// engine also reconciles IsRead on request rows when a decision is made or
// undone.
type Notification struct {
	ReceiverID uuid.UUID        `db:"receiver_id" json:"receiver_id"`
	SenderID   uuid.UUID        `db:"sender_id" json:"sender_id"`
	MeetingID  uuid.UUID        `db:"meeting_id" json:"meeting_id"`
	Type       NotificationType `db:"type" json:"type"`
	IsRead     bool             `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

// NotificationWithMeeting joins the meeting title for feed rendering.
type NotificationWithMeeting struct {
	Notification
	MeetingTitle string `db:"meeting_title" json:"meeting_title"`
}

type PaginatedNotificationEntity = entity.Pagination[NotificationWithMeeting]
