package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonsilipetar/cadenza/core/program"
	"github.com/leonsilipetar/cadenza/core/user"
	emailsvc "github.com/leonsilipetar/cadenza/services/email"
	dummydb "github.com/leonsilipetar/cadenza/storage/database/dummy"
	testutil "github.com/leonsilipetar/cadenza/tests"
)

func programIDs(programs []program.Program) []string {
	ids := make([]string, 0, len(programs))
	for _, prg := range programs {
		ids = append(ids, prg.ID)
	}
	return ids
}

func TestServicePrograms(t *testing.T) {
	ctx := context.Background()
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewUserRepository(db)
	svc := user.NewService(repo, emailsvc.NewConsoleServiceMock())

	sch := testutil.CreateSchool(t, dummydb.NewSchoolRepository(db), "Conservatory")
	prgRepo := dummydb.NewProgramRepository(db)
	piano := testutil.CreateProgram(t, prgRepo, sch.ID, "Piano")
	violin := testutil.CreateProgram(t, prgRepo, sch.ID, "Violin")

	t.Run("create registers programs", func(t *testing.T) {
		usr, err := svc.Create(ctx, user.NewUser{
			Name:       "Reg Student",
			Username:   "regstudent",
			Password:   "S3cr3t!pwd",
			Roles:      []string{user.RoleStudent},
			ProgramIDs: []string{piano.ID},
		})
		require.NoError(t, err)
		require.Len(t, usr.Programs, 1)
		assert.Equal(t, piano.ID, usr.Programs[0].ID)

		got, err := svc.GetWithPrograms(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{piano.ID}, programIDs(got.Programs))
	})

	t.Run("create with unknown program", func(t *testing.T) {
		_, err := svc.Create(ctx, user.NewUser{
			Name:       "No Program",
			Username:   "noprogram",
			Password:   "S3cr3t!pwd",
			ProgramIDs: []string{"nope"},
		})
		require.ErrorIs(t, err, program.ErrNotFound)
	})

	t.Run("update replaces registrations", func(t *testing.T) {
		usr, err := svc.Create(ctx, user.NewUser{
			Name:       "Swap Student",
			Username:   "swapstudent",
			Password:   "S3cr3t!pwd",
			ProgramIDs: []string{piano.ID},
		})
		require.NoError(t, err)

		usr, err = svc.Update(ctx, usr.ID, user.UpdateUser{ProgramIDs: []string{violin.ID}})
		require.NoError(t, err)
		assert.Equal(t, []string{violin.ID}, programIDs(usr.Programs))
	})

	t.Run("update without program ids leaves registrations", func(t *testing.T) {
		usr, err := svc.Create(ctx, user.NewUser{
			Name:       "Keep Student",
			Username:   "keepstudent",
			Password:   "S3cr3t!pwd",
			ProgramIDs: []string{piano.ID},
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, usr.ID, user.UpdateUser{Name: "Kept Student"})
		require.NoError(t, err)

		got, err := svc.GetWithPrograms(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{piano.ID}, programIDs(got.Programs))
	})

	t.Run("update with empty slice clears registrations", func(t *testing.T) {
		usr, err := svc.Create(ctx, user.NewUser{
			Name:       "Clear Student",
			Username:   "clearstudent",
			Password:   "S3cr3t!pwd",
			ProgramIDs: []string{piano.ID, violin.ID},
		})
		require.NoError(t, err)

		usr, err = svc.Update(ctx, usr.ID, user.UpdateUser{ProgramIDs: []string{}})
		require.NoError(t, err)
		assert.Empty(t, usr.Programs)
	})
}
