package dto

import "github.com/google/uuid"

type InterestInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ApplicantResponse is one row of the host's applicant review list.
type ApplicantResponse struct {
	ParticipationID uuid.UUID      `json:"participation_id"`
	UserID          uuid.UUID      `json:"user_id"`
	Nickname        string         `json:"nickname"`
	Bio             string         `json:"bio"`
	ProfileImage    *string        `json:"profile_image,omitempty"`
	Status          string         `json:"status"`
	Interests       []InterestInfo `json:"interests"`
}

// ParticipantResponse is one accepted member of a meeting; the host comes
// first with IsHost set.
type ParticipantResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Nickname     string    `json:"nickname"`
	Bio          string    `json:"bio"`
	ProfileImage *string   `json:"profile_image,omitempty"`
	IsHost       bool      `json:"is_host"`
}
