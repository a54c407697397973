package enroll

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/leonsilipetar/cadenza/core/program"
	"github.com/leonsilipetar/cadenza/core/user"
)

// fakeReader serves resolver lookups from in-memory maps.
type fakeReader struct {
	programs    map[string]program.Program
	users       map[string]user.User
	enrollments map[string]Enrollment // latest per user id
}

func (f fakeReader) GetProgramByID(_ context.Context, id string) (program.Program, error) {
	prg, ok := f.programs[id]
	if !ok {
		return program.Program{}, program.ErrNotFound
	}
	return prg, nil
}

func (f fakeReader) GetUserWithPrograms(_ context.Context, id string) (user.User, error) {
	usr, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (f fakeReader) GetLatestEnrollment(_ context.Context, userID string) (Enrollment, error) {
	enr, ok := f.enrollments[userID]
	if !ok {
		return Enrollment{}, ErrNotFound
	}
	return enr, nil
}

func TestResolverResolve(t *testing.T) {
	ctx := context.Background()
	reader := fakeReader{
		programs: map[string]program.Program{
			"piano":  {ID: "piano", SchoolID: "s1", Name: "Piano"},
			"violin": {ID: "violin", SchoolID: "s2", Name: "Violin"},
		},
		users: map[string]user.User{
			"u-school": {ID: "u-school", SchoolID: null.StringFrom("s1")},
			"u-programs": {
				ID:       "u-programs",
				Programs: []program.Program{{ID: "violin", SchoolID: "s2"}},
			},
			"u-bare": {ID: "u-bare"},
			"u-stored": {
				ID:       "u-stored",
				Programs: []program.Program{{ID: "violin", SchoolID: "s2"}},
			},
			"u-full": {
				ID:       "u-full",
				SchoolID: null.StringFrom("s1"),
				Programs: []program.Program{{ID: "piano", SchoolID: "s1"}},
			},
		},
		enrollments: map[string]Enrollment{
			"u-history":  {ID: "e1", UserID: "u-history", SchoolID: "s2", SchoolYear: "2023/2024"},
			"u-programs": {ID: "e2", UserID: "u-programs", SchoolID: "s2", SchoolYear: "2023/2024"},
		},
	}
	resolver := NewResolver(reader)

	tests := []struct {
		name      string
		userID    string
		programID string
		claims    Claims
		want      Identity
		wantErr   error
	}{
		{
			name:      "requested program decides school",
			userID:    "u-bare",
			programID: "piano",
			want:      Identity{SchoolID: "s1", ProgramID: null.StringFrom("piano")},
		},
		{
			name:      "requested program from another school",
			userID:    "u-bare",
			programID: "violin",
			claims:    Claims{SchoolID: null.StringFrom("s1")},
			wantErr:   ErrProgramSchoolMismatch,
		},
		{
			name:      "unknown requested program",
			userID:    "u-bare",
			programID: "nope",
			wantErr:   ErrProgramNotFound,
		},
		{
			name:   "claims school",
			userID: "u-bare",
			claims: Claims{SchoolID: null.StringFrom("s2")},
			want:   Identity{SchoolID: "s2"},
		},
		{
			name:   "user record school",
			userID: "u-school",
			want:   Identity{SchoolID: "s1"},
		},
		{
			name:   "user record school and program",
			userID: "u-full",
			want:   Identity{SchoolID: "s1", ProgramID: null.StringFrom("piano")},
		},
		{
			name:   "program from user's stored programs",
			userID: "u-programs",
			want:   Identity{SchoolID: "s2", ProgramID: null.StringFrom("violin")},
		},
		{
			name:   "school from stored program, no claims or history",
			userID: "u-stored",
			want:   Identity{SchoolID: "s2", ProgramID: null.StringFrom("violin")},
		},
		{
			name:   "stale claims program, school from stored program",
			userID: "u-stored",
			claims: Claims{ProgramID: null.StringFrom("deleted")},
			want:   Identity{SchoolID: "s2", ProgramID: null.StringFrom("deleted")},
		},
		{
			name:   "school from claims program",
			userID: "u-bare",
			claims: Claims{Programs: []ProgramClaim{{ID: "violin"}}},
			want:   Identity{SchoolID: "s2", ProgramID: null.StringFrom("violin")},
		},
		{
			name:   "stale claims program skipped, enrollment history wins",
			userID: "u-history",
			claims: Claims{ProgramID: null.StringFrom("deleted")},
			want:   Identity{SchoolID: "s2", ProgramID: null.StringFrom("deleted")},
		},
		{
			name:   "enrollment history school",
			userID: "u-history",
			want:   Identity{SchoolID: "s2"},
		},
		{
			name:    "nothing to go on",
			userID:  "u-bare",
			wantErr: ErrMissingSchool,
		},
		{
			name:   "mentor from claims",
			userID: "u-school",
			claims: Claims{MentorID: FlexIDs{"m1", "m2"}},
			want:   Identity{SchoolID: "s1", MentorID: null.StringFrom("m1")},
		},
		{
			name:      "claims school matching requested program",
			userID:    "u-bare",
			programID: "piano",
			claims:    Claims{SchoolID: null.StringFrom("s1")},
			want:      Identity{SchoolID: "s1", ProgramID: null.StringFrom("piano")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(ctx, tt.userID, tt.programID, tt.claims)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveProgramPrecedence(t *testing.T) {
	st := &resolution{
		requestedProgram: &program.Program{ID: "req"},
		claims:           Claims{ProgramID: null.StringFrom("claimed")},
		usr:              &user.User{Programs: []program.Program{{ID: "stored"}}},
	}
	r := &Resolver{}

	assert.Equal(t, null.StringFrom("req"), r.resolveProgram(st))

	st.requestedProgram = nil
	assert.Equal(t, null.StringFrom("claimed"), r.resolveProgram(st))

	st.claims = Claims{}
	assert.Equal(t, null.StringFrom("stored"), r.resolveProgram(st))

	st.usr = nil
	assert.Equal(t, null.String{}, r.resolveProgram(st))
}
