package enroll

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/user"
)

var (
	// ErrNotFound is returned when no enrollment matches.
	ErrNotFound = errors.New("enrollment not found")

	// ErrTxFailed wraps storage failures (deadlock, connection loss) inside
	// the accept transaction. The operation is idempotent, so callers may
	// retry at their discretion.
	ErrTxFailed = errors.New("enrollment transaction failed")
)

type (
	// Transactor runs fn inside one database transaction: committed when fn
	// returns nil, rolled back otherwise. The executor passed to fn must be
	// used for every statement so row locks taken by fn are held until the
	// transaction ends.
	Transactor interface {
		InTx(ctx context.Context, fn func(exec core.DBExecutor) error) error
	}

	Repository interface {
		// GetEnrollmentForUpdate reads the (userID, schoolYear) row with a
		// write-intent row lock, or returns ErrNotFound. Must run on a
		// transaction executor; the lock is held until that transaction ends.
		GetEnrollmentForUpdate(ctx context.Context, exec core.DBExecutor, userID, schoolYear string) (Enrollment, error)
		CreateEnrollment(ctx context.Context, exec core.DBExecutor, enr Enrollment) (Enrollment, error)
		UpdateEnrollment(ctx context.Context, exec core.DBExecutor, enr Enrollment) (Enrollment, error)

		GetEnrollment(ctx context.Context, userID, schoolYear string) (Enrollment, error)
		GetLatestEnrollment(ctx context.Context, userID string) (Enrollment, error)
		QueryEnrollments(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Enrollment, error)
		CountActiveBySchool(ctx context.Context, schoolYear string) ([]SchoolCount, error)
		CountActiveByProgram(ctx context.Context, schoolYear string) ([]ProgramCount, error)
	}

	// UserDirectory looks up the enrolling user for notifications.
	UserDirectory interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		tx       Transactor
		repo     Repository
		resolver *Resolver
		users    UserDirectory
		mailSvc  core.EmailService
	}
)

func NewService(tx Transactor, repo Repository, resolver *Resolver, users UserDirectory, mailSvc core.EmailService) *Service {
	return &Service{
		tx:       tx,
		repo:     repo,
		resolver: resolver,
		users:    users,
		mailSvc:  mailSvc,
	}
}

// ResolveIdentity determines the effective school/program/mentor for userID.
// It performs reads only; it is called before any transaction is opened so a
// resolution failure never leaves partial writes.
func (svc *Service) ResolveIdentity(ctx context.Context, userID, requestedProgramID string, claims Claims) (Identity, error) {
	return svc.resolver.Resolve(ctx, userID, requestedProgramID, claims)
}

// Accept records the user's agreement to enroll for schoolYear under the
// resolved identity. The read-or-create/update decision runs under a row
// lock inside one transaction, so concurrent calls for the same
// (user, schoolYear) serialize and at most one row ever exists:
//   - no row yet: a new accepted row is created.
//   - a not-yet-accepted row exists: it is accepted in place; its stored
//     school/program/mentor are preserved so a re-submission with a different
//     selection cannot silently change the original commitment.
//   - an accepted row exists: it is returned unchanged with alreadyAccepted
//     true, making the operation idempotent.
func (svc *Service) Accept(ctx context.Context, userID, schoolYear string, ident Identity, agreementText string) (Enrollment, bool, error) {
	var (
		result          Enrollment
		alreadyAccepted bool
	)

	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		now := time.Now().UTC()

		enr, err := svc.repo.GetEnrollmentForUpdate(ctx, exec, userID, schoolYear)
		switch {
		case errors.Is(err, ErrNotFound):
			enr = Enrollment{
				ID:                  uuid.New().String(),
				UserID:              userID,
				SchoolID:            ident.SchoolID,
				ProgramID:           ident.ProgramID,
				MentorID:            ident.MentorID,
				SchoolYear:          schoolYear,
				AgreementAccepted:   true,
				AgreementAcceptedAt: null.TimeFrom(now),
				AgreementText:       agreementText,
				IsActive:            true,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			result, err = svc.repo.CreateEnrollment(ctx, exec, enr)
			return err

		case err != nil:
			return err

		case enr.AgreementAccepted:
			result = enr
			alreadyAccepted = true
			return nil

		default:
			// accept the pending row in place, keeping its stored
			// school/program/mentor values
			enr.AgreementAccepted = true
			enr.AgreementAcceptedAt = null.TimeFrom(now)
			enr.AgreementText = agreementText
			enr.IsActive = true
			enr.UpdatedAt = now
			result, err = svc.repo.UpdateEnrollment(ctx, exec, enr)
			return err
		}
	})
	if err != nil {
		return Enrollment{}, false, pkgerrors.Wrapf(ErrTxFailed, "accepting enrollment for user %s, year %s: %v", userID, schoolYear, err)
	}

	if !alreadyAccepted {
		svc.sendConfirmationEmail(ctx, result)
	}
	return result, alreadyAccepted, nil
}

// Current returns the user's enrollment for the school year the enrollment
// window points at on ref, or ErrNotFound.
func (svc *Service) Current(ctx context.Context, userID string, ref time.Time) (Enrollment, error) {
	return svc.repo.GetEnrollment(ctx, userID, EnrollmentWindowYear(ref))
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, filter, ordering)
}

// Stats counts active enrollments for the administrative year in session at ref.
func (svc *Service) Stats(ctx context.Context, ref time.Time) (Stats, error) {
	year := AdministrativeYear(ref)

	bySchool, err := svc.repo.CountActiveBySchool(ctx, year)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(err, "counting enrollments by school")
	}
	byProgram, err := svc.repo.CountActiveByProgram(ctx, year)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(err, "counting enrollments by program")
	}

	var total int
	for _, sc := range bySchool {
		total += sc.Count
	}
	return Stats{
		SchoolYear: year,
		Total:      total,
		BySchool:   bySchool,
		ByProgram:  byProgram,
	}, nil
}

// AgreementText returns the canonical agreement wording users accept.
func (svc *Service) AgreementText() string {
	return core.Conf.Enrollment.AgreementText
}

func (svc *Service) sendConfirmationEmail(ctx context.Context, enr Enrollment) {
	usr, err := svc.users.GetByID(ctx, enr.UserID)
	if err != nil || usr.Email == "" {
		return // nothing to notify
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: fmt.Sprintf("Enrollment confirmed for %s", enr.SchoolYear),
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour enrollment for the %s school year has been confirmed.\n",
			usr.Name, enr.SchoolYear,
		),
	})
}
