package enroll

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"

	"github.com/leonsilipetar/cadenza/core/program"
	"github.com/leonsilipetar/cadenza/core/user"
)

var (
	// errors
	ErrProgramNotFound       = errors.New("program not found")
	ErrProgramSchoolMismatch = errors.New("program does not belong to your school")
	ErrMissingSchool         = errors.New("no school could be determined; supply a school or program")
)

// Reader is the read-only storage access identity resolution needs.
type Reader interface {
	GetProgramByID(ctx context.Context, id string) (program.Program, error)
	// GetUserWithPrograms returns the user with the Programs association populated.
	GetUserWithPrograms(ctx context.Context, id string) (user.User, error)
	// GetLatestEnrollment returns the user's most recent enrollment of any
	// school year, or ErrNotFound.
	GetLatestEnrollment(ctx context.Context, userID string) (Enrollment, error)
}

// Resolver determines the effective (school, program, mentor) identity for a
// user from a prioritized set of sources: the explicit request, the caller's
// claims, the persisted user record, and enrollment history.
type Resolver struct {
	reader Reader
}

func NewResolver(reader Reader) *Resolver {
	return &Resolver{reader: reader}
}

// resolution accumulates state shared by the school strategies so each
// record (the requested program, the user row) is fetched at most once.
type resolution struct {
	userID             string
	requestedProgramID string
	claims             Claims

	requestedProgram *program.Program
	usr              *user.User
}

// schoolStrategy yields a school id candidate or null; strategies run in
// precedence order and the first non-null candidate wins.
type schoolStrategy func(ctx context.Context, r *Resolver, st *resolution) (null.String, error)

var schoolStrategies = []schoolStrategy{
	schoolFromRequestedProgram,
	schoolFromClaims,
	schoolFromUserRecord,
	schoolFromResolvedProgram,
	schoolFromEnrollmentHistory,
}

// Resolve computes the identity for userID. requestedProgramID may be empty.
// Failure modes: ErrProgramNotFound (bad requested program id),
// ErrProgramSchoolMismatch (requested program owned by another school),
// ErrMissingSchool (no rule yields a school).
func (r *Resolver) Resolve(ctx context.Context, userID, requestedProgramID string, claims Claims) (Identity, error) {
	st := &resolution{
		userID:             userID,
		requestedProgramID: requestedProgramID,
		claims:             claims,
	}

	var schoolID null.String
	for _, strategy := range schoolStrategies {
		candidate, err := strategy(ctx, r, st)
		if err != nil {
			return Identity{}, err
		}
		if candidate.Valid {
			schoolID = candidate
			break
		}
	}
	if !schoolID.Valid {
		return Identity{}, ErrMissingSchool
	}

	return Identity{
		SchoolID:  schoolID.String,
		ProgramID: r.resolveProgram(st),
		MentorID:  resolveMentor(claims),
	}, nil
}

// schoolFromRequestedProgram loads the explicitly requested program and uses
// its school, rejecting programs owned by a school other than the caller's.
func schoolFromRequestedProgram(ctx context.Context, r *Resolver, st *resolution) (null.String, error) {
	if st.requestedProgramID == "" {
		return null.String{}, nil
	}
	prg, err := r.reader.GetProgramByID(ctx, st.requestedProgramID)
	if err != nil {
		if errors.Is(err, program.ErrNotFound) {
			return null.String{}, ErrProgramNotFound
		}
		return null.String{}, err
	}
	st.requestedProgram = &prg

	if st.claims.SchoolID.Valid && st.claims.SchoolID.String != prg.SchoolID {
		return null.String{}, ErrProgramSchoolMismatch
	}
	return null.StringFrom(prg.SchoolID), nil
}

func schoolFromClaims(_ context.Context, _ *Resolver, st *resolution) (null.String, error) {
	return st.claims.SchoolID, nil
}

func schoolFromUserRecord(ctx context.Context, r *Resolver, st *resolution) (null.String, error) {
	usr, err := r.reader.GetUserWithPrograms(ctx, st.userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return null.String{}, nil
		}
		return null.String{}, err
	}
	st.usr = &usr
	return usr.SchoolID, nil
}

// schoolFromResolvedProgram falls back to the school owning whichever
// program the claims resolve to, then to the user's first stored program
// when the user record was loaded. A stale claim pointing at a deleted
// program is skipped, not an error.
func schoolFromResolvedProgram(ctx context.Context, r *Resolver, st *resolution) (null.String, error) {
	if programID := st.claims.FirstProgram(); programID != "" {
		prg, err := r.reader.GetProgramByID(ctx, programID)
		if err == nil {
			return null.StringFrom(prg.SchoolID), nil
		}
		if !errors.Is(err, program.ErrNotFound) {
			return null.String{}, err
		}
	}
	if st.usr != nil && len(st.usr.Programs) > 0 {
		return null.StringFrom(st.usr.Programs[0].SchoolID), nil
	}
	return null.String{}, nil
}

func schoolFromEnrollmentHistory(ctx context.Context, r *Resolver, st *resolution) (null.String, error) {
	enr, err := r.reader.GetLatestEnrollment(ctx, st.userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return null.String{}, nil
		}
		return null.String{}, err
	}
	return null.StringFrom(enr.SchoolID), nil
}

// resolveProgram picks the program by precedence: explicit request, claims'
// single program id, first of the claims' programs array, then the first of
// the user's stored programs if the user record was already loaded during
// school resolution. Absence is not an error.
func (r *Resolver) resolveProgram(st *resolution) null.String {
	if st.requestedProgram != nil {
		return null.StringFrom(st.requestedProgram.ID)
	}
	if id := st.claims.FirstProgram(); id != "" {
		return null.StringFrom(id)
	}
	if st.usr != nil && len(st.usr.Programs) > 0 {
		return null.StringFrom(st.usr.Programs[0].ID)
	}
	return null.String{}
}

// resolveMentor picks the claims' mentor; a multi-valued claim takes its
// first entry. Absence is not an error.
func resolveMentor(claims Claims) null.String {
	if id := claims.MentorID.First(); id != "" {
		return null.StringFrom(id)
	}
	return null.String{}
}
