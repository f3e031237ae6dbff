package entity

import (
	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/entity"
)

// ParticipationStatus is the lifecycle state of a join request.
type ParticipationStatus string

const (
	StatusPending  ParticipationStatus = "PENDING"
	StatusAccepted ParticipationStatus = "ACCEPTED"
	StatusRejected ParticipationStatus = "REJECTED"
)

// Participation records one user's relationship to one meeting. At most one
// row exists per (user, meeting); rejections and undo operations change the
// status, never delete the row, so the full decision history survives. The
// host's own row is created ACCEPTED with IsHost=true at meeting creation
// and is excluded from applicant-facing views.
type Participation struct {
	MeetingID uuid.UUID           `db:"meeting_id" json:"meeting_id"`
	UserID    uuid.UUID           `db:"user_id" json:"user_id"`
	Status    ParticipationStatus `db:"status" json:"status"`
	IsHost    bool                `db:"is_host" json:"is_host"`
	entity.BaseEntity
}

// ApplicantRow joins the applicant's profile for the host's review list.
type ApplicantRow struct {
	ParticipationID uuid.UUID           `db:"participation_id"`
	UserID          uuid.UUID           `db:"user_id"`
	Nickname        string              `db:"nickname"`
	Bio             *string             `db:"bio"`
	ImageURL        *string             `db:"image_url"`
	Status          ParticipationStatus `db:"status"`
}

// ParticipantRow joins the profile of an accepted member.
type ParticipantRow struct {
	UserID   uuid.UUID `db:"user_id"`
	Nickname string    `db:"nickname"`
	Bio      *string   `db:"bio"`
	ImageURL *string   `db:"image_url"`
	IsHost   bool      `db:"is_host"`
}
