package dto

import (
	"time"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

// CreateMeetingRequest for opening a new meeting. Sent as multipart form
// fields alongside an optional meeting_image file part.
type CreateMeetingRequest struct {
	Title           string `form:"title" json:"title" validate:"required"`
	Description     string `form:"description" json:"description"`
	InterestID      string `form:"interest_id" json:"interest_id" validate:"required"`
	Address         string `form:"address" json:"address" validate:"required"`
	MaxParticipants int    `form:"max_participants" json:"max_participants" validate:"required,min=1"`
	MeetingDate     string `form:"meeting_date" json:"meeting_date" validate:"required"` // RFC3339 or 2006-01-02T15:04
}

// UpdateMeetingRequest for editing a meeting; zero values leave the field
// unchanged.
type UpdateMeetingRequest struct {
	Title           string `form:"title" json:"title"`
	Description     string `form:"description" json:"description"`
	InterestID      string `form:"interest_id" json:"interest_id"`
	Address         string `form:"address" json:"address"`
	MaxParticipants int    `form:"max_participants" json:"max_participants"`
	MeetingDate     string `form:"meeting_date" json:"meeting_date"`
}

// ===================== Response DTOs =====================

type MeetingItemResponse struct {
	MeetingID           uuid.UUID `json:"meeting_id"`
	Title               string    `json:"title"`
	MeetingImage        *string   `json:"meeting_image,omitempty"`
	InterestName        string    `json:"interest_name"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	Address             string    `json:"address"`
	MeetingDate         time.Time `json:"meeting_date"`
	HostNickname        string    `json:"host_nickname,omitempty"`
}

type LocationResponse struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

type HostResponse struct {
	HostID    uuid.UUID `json:"host_id"`
	Nickname  string    `json:"nickname"`
	Bio       string    `json:"bio"`
	HostImage *string   `json:"host_image,omitempty"`
}

type MeetingDetailResponse struct {
	MeetingID           uuid.UUID        `json:"meeting_id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	MeetingImage        *string          `json:"meeting_image,omitempty"`
	InterestID          uuid.UUID        `json:"interest_id"`
	MaxParticipants     int              `json:"max_participants"`
	CurrentParticipants int              `json:"current_participants"`
	MeetingDate         time.Time        `json:"meeting_date"`
	Location            LocationResponse `json:"location"`
	Host                HostResponse     `json:"host"`
}

type MyMeetingResponse struct {
	MeetingID           uuid.UUID `json:"meeting_id"`
	Title               string    `json:"title"`
	MeetingImage        *string   `json:"meeting_image,omitempty"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	Address             string    `json:"address"`
	MeetingDate         time.Time `json:"meeting_date"`
	Status              string    `json:"status"`
	IsHost              bool      `json:"is_host"`
	IsCompleted         bool      `json:"is_completed"`
}
