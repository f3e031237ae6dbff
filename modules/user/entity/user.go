package entity

import (
	"github.com/google/uuid"

	"github.com/moimo-team/moaclass-back/core/entity"
)

// User is the profile slice this service reads. Account management lives
// in the identity service; rows here are read-only.
type User struct {
	Nickname string  `db:"nickname" json:"nickname"`
	Email    string  `db:"email" json:"email"`
	Bio      *string `db:"bio" json:"bio,omitempty"`
	ImageURL *string `db:"image_url" json:"image_url,omitempty"`
	entity.BaseEntity
}

// UserInterestRow is one (user, interest) pair from the join table.
type UserInterestRow struct {
	UserID       uuid.UUID `db:"user_id"`
	InterestID   uuid.UUID `db:"interest_id"`
	InterestName string    `db:"interest_name"`
}
