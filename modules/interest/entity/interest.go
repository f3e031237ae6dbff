package entity

import "github.com/moimo-team/moaclass-back/core/entity"

// Interest is a fixed category meetings are tagged with.
type Interest struct {
	Name string `db:"name" json:"name"`
	entity.BaseEntity
}
