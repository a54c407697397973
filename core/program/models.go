package program

import (
	"time"

	"github.com/leonsilipetar/cadenza/core"
)

// Program is a course offering belonging to exactly one school.
type Program struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // UTC
}

// NewProgram contains information needed to create a new Program.
type NewProgram struct {
	SchoolID string `json:"school_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

func (np *NewProgram) Validate() error {
	np.Name = core.CleanString(np.Name)
	return core.Validate.Struct(np)
}
