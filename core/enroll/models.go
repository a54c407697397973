package enroll

import (
	"encoding/json"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/leonsilipetar/cadenza/core"
)

// Enrollment is one user's confirmed commitment to a school/program/mentor
// for one school year. At most one row exists per (UserID, SchoolYear).
type Enrollment struct {
	ID                  string      `db:"id" json:"id"`
	UserID              string      `db:"user_id" json:"user_id"`
	SchoolID            string      `db:"school_id" json:"school_id"`
	ProgramID           null.String `db:"program_id" json:"program_id"`
	MentorID            null.String `db:"mentor_id" json:"mentor_id"`
	SchoolYear          string      `db:"school_year" json:"school_year"`
	AgreementAccepted   bool        `db:"agreement_accepted" json:"agreement_accepted"`
	AgreementAcceptedAt null.Time   `db:"agreement_accepted_at" json:"agreement_accepted_at"`
	// AgreementText is the agreement wording shown at acceptance time,
	// preserved for audit even if the canonical text later changes.
	AgreementText string    `db:"agreement_text" json:"agreement_text"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"` // UTC
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"` // UTC
}

// Identity is the resolved (school, program, mentor) triple an enrollment
// is accepted against. Program and mentor are optional.
type Identity struct {
	SchoolID  string      `json:"school_id"`
	ProgramID null.String `json:"program_id"`
	MentorID  null.String `json:"mentor_id"`
}

// FlexIDs decodes a JSON id that may arrive as a scalar or as an array,
// eg. `"m1"` or `["m1","m2"]`. Older tokens carry the scalar shape.
type FlexIDs []string

func (f *FlexIDs) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*f = nil
		} else {
			*f = FlexIDs{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*f = FlexIDs(many)
	return nil
}

// First returns the first id or "".
func (f FlexIDs) First() string {
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// ProgramClaim is the program reference shape carried in auth claims.
type ProgramClaim struct {
	ID string `json:"id"`
}

// Claims is the school/program/mentor context transmitted with the
// authenticated caller. Every field is optional; the resolver applies
// a fixed precedence over them.
type Claims struct {
	SchoolID  null.String    `json:"school_id"`
	ProgramID null.String    `json:"program_id"`
	Programs  []ProgramClaim `json:"programs"`
	MentorID  FlexIDs        `json:"mentor_id"`
}

// FirstProgram returns the first program id carried by the claims, in
// precedence order: the single program id, then the programs array.
func (c Claims) FirstProgram() string {
	if c.ProgramID.Valid {
		return c.ProgramID.String
	}
	if len(c.Programs) > 0 {
		return c.Programs[0].ID
	}
	return ""
}

// AcceptEnrollment is the request payload for accepting an enrollment.
type AcceptEnrollment struct {
	ProgramID     string `json:"program_id"`
	AgreementText string `json:"agreement_text"`
}

func (ae *AcceptEnrollment) Validate() error {
	ae.ProgramID = core.CleanString(ae.ProgramID)
	ae.AgreementText = core.CleanString(ae.AgreementText)
	return core.Validate.Struct(ae)
}

// QueryFilter applies AND semantics on its non-zero fields.
type QueryFilter struct {
	SchoolID   string `query:"school_id"`
	SchoolYear string `query:"school_year" validate:"omitempty,schoolyear"`
	IsActive   *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.SchoolID == "" && qf.SchoolYear == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Validate() error {
	qf.SchoolYear = core.CleanString(qf.SchoolYear)
	return core.Validate.Struct(qf)
}

type (
	SchoolCount struct {
		SchoolID string `db:"school_id" json:"school_id"`
		Count    int    `db:"count" json:"count"`
	}

	ProgramCount struct {
		ProgramID string `db:"program_id" json:"program_id"`
		Count     int    `db:"count" json:"count"`
	}

	// Stats summarizes active enrollments for one school year.
	Stats struct {
		SchoolYear string         `json:"school_year"`
		Total      int            `json:"total"`
		BySchool   []SchoolCount  `json:"by_school"`
		ByProgram  []ProgramCount `json:"by_program"`
	}
)
