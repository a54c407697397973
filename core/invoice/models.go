package invoice

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/leonsilipetar/cadenza/core"
)

// Statuses
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Invoice is a tuition bill issued to a user for one school year.
type Invoice struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	SchoolID    string    `db:"school_id" json:"school_id"`
	SchoolYear  string    `db:"school_year" json:"school_year"`
	AmountCents int64     `db:"amount_cents" json:"amount_cents"`
	Description string    `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	PaidAt      null.Time `db:"paid_at" json:"paid_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"` // UTC
}

// NewInvoice contains information needed to issue a new Invoice.
type NewInvoice struct {
	UserID      string    `json:"user_id" validate:"required"`
	SchoolID    string    `json:"school_id" validate:"required"`
	SchoolYear  string    `json:"school_year" validate:"required,schoolyear"`
	AmountCents int64     `json:"amount_cents" validate:"required,gt=0"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

func (ni *NewInvoice) Validate() error {
	ni.Description = core.CleanString(ni.Description)
	return core.Validate.Struct(ni)
}

// QueryFilter applies AND semantics on its non-zero fields.
type QueryFilter struct {
	UserID     string `query:"user_id"`
	SchoolID   string `query:"school_id"`
	SchoolYear string `query:"school_year"`
	Status     string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.UserID == "" && qf.SchoolID == "" && qf.SchoolYear == "" && qf.Status == ""
}
