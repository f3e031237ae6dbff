package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/entity"
)

// MeetingSort selects the ordering of meeting listings.
type MeetingSort string

const (
	SortNew      MeetingSort = "new"      // newest first (default)
	SortUpdate   MeetingSort = "update"   // recently updated first
	SortDeadline MeetingSort = "deadline" // soonest meeting date first
)

// Meeting is a capacity-limited meetup. CurrentParticipants is a
// denormalized counter over ACCEPTED participations; it is mutated only by
// the participation engine, inside the same transaction as the status
// change it reflects.
type Meeting struct {
	HostID              uuid.UUID `db:"host_id" json:"host_id"`
	Title               string    `db:"title" json:"title"`
	Description         string    `db:"description" json:"description"`
	InterestID          uuid.UUID `db:"interest_id" json:"interest_id"`
	Address             string    `db:"address" json:"address"`
	Latitude            float64   `db:"latitude" json:"latitude"`
	Longitude           float64   `db:"longitude" json:"longitude"`
	ImageURL            *string   `db:"image_url" json:"image_url,omitempty"`
	MaxParticipants     int       `db:"max_participants" json:"max_participants"`
	CurrentParticipants int       `db:"current_participants" json:"current_participants"`
	MeetingDate         time.Time `db:"meeting_date" json:"meeting_date"`
	Deleted             bool      `db:"deleted" json:"deleted"`
	entity.BaseEntity
}

// IsFinished reports whether the meeting date has passed.
func (m *Meeting) IsFinished(now time.Time) bool {
	return m.MeetingDate.Before(now)
}

// MeetingWithInterest joins the interest name (and host nickname for
// search results) for listing views.
type MeetingWithInterest struct {
	Meeting
	InterestName string  `db:"interest_name" json:"interest_name"`
	HostNickname *string `db:"host_nickname" json:"host_nickname,omitempty"`
}

// MyMeetingRow carries the caller's own participation status alongside the
// meeting for "my meetings" views.
type MyMeetingRow struct {
	Meeting
	MyStatus ParticipationStatus `db:"my_status" json:"my_status"`
}

// ListFilter narrows the public meeting listing.
type ListFilter struct {
	InterestID      *uuid.UUID
	IncludeFinished bool
	Sort            MeetingSort
}

// MyMeetingFilter narrows the "my meetings" listing.
type MyMeetingFilter struct {
	View   string // all | hosted | joined
	Status string // all | pending | accepted | completed
}
