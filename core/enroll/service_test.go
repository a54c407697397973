package enroll_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/enroll"
	"github.com/leonsilipetar/cadenza/core/user"
	emailsvc "github.com/leonsilipetar/cadenza/services/email"
	dummydb "github.com/leonsilipetar/cadenza/storage/database/dummy"
)

type stubDirectory struct {
	users map[string]user.User
}

func (d stubDirectory) GetByID(_ context.Context, id string) (user.User, error) {
	usr, ok := d.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

type svcTest struct {
	db   *dummydb.DB
	repo enroll.Repository
	svc  *enroll.Service
}

func newSvcTest(t *testing.T) *svcTest {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	repo := dummydb.NewEnrollRepository(db)
	directory := stubDirectory{users: map[string]user.User{
		"u1": {ID: "u1", Name: "Ana", Email: "ana@test.cadenza"},
	}}

	emailsvc.ClearSentMessages()
	return &svcTest{
		db:   db,
		repo: repo,
		svc:  enroll.NewService(db, repo, nil, directory, emailsvc.NewConsoleServiceMock()),
	}
}

func TestServiceAccept(t *testing.T) {
	ctx := context.Background()
	ident := enroll.Identity{
		SchoolID:  "s1",
		ProgramID: null.StringFrom("piano"),
		MentorID:  null.StringFrom("m1"),
	}

	t.Run("creates accepted enrollment", func(t *testing.T) {
		st := newSvcTest(t)

		enr, already, err := st.svc.Accept(ctx, "u1", "2024/2025", ident, "I agree.")
		require.NoError(t, err)
		assert.False(t, already)
		assert.NotEmpty(t, enr.ID)
		assert.Equal(t, "u1", enr.UserID)
		assert.Equal(t, "s1", enr.SchoolID)
		assert.Equal(t, null.StringFrom("piano"), enr.ProgramID)
		assert.Equal(t, null.StringFrom("m1"), enr.MentorID)
		assert.Equal(t, "2024/2025", enr.SchoolYear)
		assert.True(t, enr.AgreementAccepted)
		assert.True(t, enr.AgreementAcceptedAt.Valid)
		assert.Equal(t, "I agree.", enr.AgreementText)
		assert.True(t, enr.IsActive)

		require.Len(t, emailsvc.SentMessages, 1)
		msg := emailsvc.SentMessages[0]
		require.Len(t, msg.To, 1)
		assert.Equal(t, "ana@test.cadenza", msg.To[0].Address)
		assert.Contains(t, msg.Subject, "2024/2025")
	})

	t.Run("idempotent on re-accept", func(t *testing.T) {
		st := newSvcTest(t)

		first, _, err := st.svc.Accept(ctx, "u1", "2024/2025", ident, "I agree.")
		require.NoError(t, err)

		otherIdent := enroll.Identity{SchoolID: "s2"}
		second, already, err := st.svc.Accept(ctx, "u1", "2024/2025", otherIdent, "changed my mind")
		require.NoError(t, err)
		assert.True(t, already)
		assert.Equal(t, first, second)

		// no second confirmation email
		assert.Len(t, emailsvc.SentMessages, 1)
	})

	t.Run("accepting a pending row keeps its stored commitment", func(t *testing.T) {
		st := newSvcTest(t)

		now := time.Now().UTC()
		pending := enroll.Enrollment{
			ID:         "e-pending",
			UserID:     "u1",
			SchoolID:   "s1",
			ProgramID:  null.StringFrom("piano"),
			MentorID:   null.StringFrom("m1"),
			SchoolYear: "2024/2025",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err := st.db.InTx(ctx, func(exec core.DBExecutor) error {
			_, err := st.repo.CreateEnrollment(ctx, exec, pending)
			return err
		})
		require.NoError(t, err)

		otherIdent := enroll.Identity{SchoolID: "s2", ProgramID: null.StringFrom("violin")}
		enr, already, err := st.svc.Accept(ctx, "u1", "2024/2025", otherIdent, "I agree.")
		require.NoError(t, err)
		assert.False(t, already)
		assert.Equal(t, "e-pending", enr.ID)
		assert.Equal(t, "s1", enr.SchoolID)
		assert.Equal(t, null.StringFrom("piano"), enr.ProgramID)
		assert.Equal(t, null.StringFrom("m1"), enr.MentorID)
		assert.True(t, enr.AgreementAccepted)
		assert.True(t, enr.IsActive)
	})

	t.Run("concurrent accepts produce one row", func(t *testing.T) {
		st := newSvcTest(t)

		const callers = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, already, err := st.svc.Accept(ctx, "u1", "2024/2025", ident, "I agree.")
				assert.NoError(t, err)
				if !already {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		enrs, err := st.repo.QueryEnrollments(ctx, nil, nil)
		require.NoError(t, err)
		assert.Len(t, enrs, 1)
		assert.Len(t, emailsvc.SentMessages, 1)
	})

	t.Run("storage failure wraps ErrTxFailed", func(t *testing.T) {
		st := newSvcTest(t)
		svc := enroll.NewService(st.db, failingRepo{Repository: st.repo}, nil, stubDirectory{}, emailsvc.NewConsoleServiceMock())

		_, _, err := svc.Accept(ctx, "u1", "2024/2025", ident, "I agree.")
		require.ErrorIs(t, err, enroll.ErrTxFailed)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

type failingRepo struct {
	enroll.Repository
}

func (failingRepo) GetEnrollmentForUpdate(context.Context, core.DBExecutor, string, string) (enroll.Enrollment, error) {
	return enroll.Enrollment{}, errors.New("connection reset")
}

func TestServiceCurrent(t *testing.T) {
	ctx := context.Background()
	st := newSvcTest(t)

	ref := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	_, err := st.svc.Current(ctx, "u1", ref)
	require.ErrorIs(t, err, enroll.ErrNotFound)

	_, _, err = st.svc.Accept(ctx, "u1", "2024/2025", enroll.Identity{SchoolID: "s1"}, "I agree.")
	require.NoError(t, err)

	enr, err := st.svc.Current(ctx, "u1", ref)
	require.NoError(t, err)
	assert.Equal(t, "2024/2025", enr.SchoolYear)

	// after the window the same year is still current
	_, err = st.svc.Current(ctx, "u1", time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
}

func TestServiceStats(t *testing.T) {
	ctx := context.Background()
	st := newSvcTest(t)

	year := enroll.AdministrativeYear(time.Now())
	accept := func(userID, schoolID, programID string) {
		ident := enroll.Identity{SchoolID: schoolID}
		if programID != "" {
			ident.ProgramID = null.StringFrom(programID)
		}
		_, _, err := st.svc.Accept(ctx, userID, year, ident, "I agree.")
		require.NoError(t, err)
	}
	accept("u1", "s1", "piano")
	accept("u2", "s1", "violin")
	accept("u3", "s2", "")

	stats, err := st.svc.Stats(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, year, stats.SchoolYear)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, []enroll.SchoolCount{{SchoolID: "s1", Count: 2}, {SchoolID: "s2", Count: 1}}, stats.BySchool)
	assert.Equal(t, []enroll.ProgramCount{{ProgramID: "piano", Count: 1}, {ProgramID: "violin", Count: 1}}, stats.ByProgram)
}

func TestServiceAgreementText(t *testing.T) {
	st := newSvcTest(t)
	assert.NotEmpty(t, st.svc.AgreementText())
}
