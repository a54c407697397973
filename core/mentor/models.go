package mentor

import (
	"time"

	"github.com/leonsilipetar/cadenza/core"
)

// Mentor is a staff member associated with a school and optionally assigned to students.
type Mentor struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // UTC
}

// NewMentor contains information needed to create a new Mentor.
type NewMentor struct {
	SchoolID string `json:"school_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

func (nm *NewMentor) Validate() error {
	nm.Name = core.CleanString(nm.Name)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	nm.Phone = core.CleanString(nm.Phone)
	return core.Validate.Struct(nm)
}

// UpdateMentor defines what information may be provided to modify an existing Mentor.
type UpdateMentor struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

func (um *UpdateMentor) Validate(orig Mentor) error {
	if name := core.CleanString(um.Name); name != "" {
		um.Name = name
	} else {
		um.Name = orig.Name
	}
	if email := core.CleanString(um.Email, true /* lower */); email != "" {
		um.Email = email
	} else {
		um.Email = orig.Email
	}
	if phone := core.CleanString(um.Phone); phone != "" {
		um.Phone = phone
	} else {
		um.Phone = orig.Phone
	}
	return core.Validate.Struct(um)
}
