package invoice

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("invoice not found")
	ErrNotPending    = errors.New("invoice is not pending")
	ErrAlreadyPaid   = errors.New("invoice has already been paid")
	ErrUnknownStatus = errors.New("unknown invoice status")
)

type (
	Repository interface {
		CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error)
		GetInvoiceByID(ctx context.Context, id string) (Invoice, error)
		QueryInvoices(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Invoice, error)
		UpdateInvoiceStatus(ctx context.Context, inv Invoice) (Invoice, error)
	}

	// UserDirectory looks up the billed user for notifications.
	UserDirectory interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo    Repository
		users   UserDirectory
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, users UserDirectory, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, users: users, mailSvc: mailSvc}
}

func (svc *Service) Create(ctx context.Context, ni NewInvoice) (Invoice, error) {
	now := time.Now().UTC()
	inv := Invoice{
		UserID:      ni.UserID,
		SchoolID:    ni.SchoolID,
		SchoolYear:  ni.SchoolYear,
		AmountCents: ni.AmountCents,
		Description: ni.Description,
		Status:      StatusPending,
		DueDate:     ni.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	inv, err := svc.repo.CreateInvoice(ctx, inv)
	if err != nil {
		return Invoice{}, err
	}
	svc.sendIssuedEmail(ctx, inv)
	return inv, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Invoice, error) {
	return svc.repo.GetInvoiceByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Invoice, error) {
	return svc.repo.QueryInvoices(ctx, filter, ordering)
}

// MarkPaid transitions a pending invoice to paid. Paying twice is rejected.
func (svc *Service) MarkPaid(ctx context.Context, id string) (Invoice, error) {
	inv, err := svc.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	switch inv.Status {
	case StatusPaid:
		return Invoice{}, ErrAlreadyPaid
	case StatusCancelled:
		return Invoice{}, ErrNotPending
	case StatusPending:
	default:
		return Invoice{}, ErrUnknownStatus
	}

	now := time.Now().UTC()
	inv.Status = StatusPaid
	inv.PaidAt = null.TimeFrom(now)
	inv.UpdatedAt = now
	return svc.repo.UpdateInvoiceStatus(ctx, inv)
}

// Cancel voids a pending invoice.
func (svc *Service) Cancel(ctx context.Context, id string) (Invoice, error) {
	inv, err := svc.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	if inv.Status != StatusPending {
		return Invoice{}, ErrNotPending
	}

	inv.Status = StatusCancelled
	inv.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateInvoiceStatus(ctx, inv)
}

func (svc *Service) sendIssuedEmail(ctx context.Context, inv Invoice) {
	usr, err := svc.users.GetByID(ctx, inv.UserID)
	if err != nil || usr.Email == "" {
		return // nothing to notify
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: fmt.Sprintf("Invoice for school year %s", inv.SchoolYear),
		Body: fmt.Sprintf(
			"Hi %s,\n\nA new invoice of %.2f is due on %s.\n%s\n",
			usr.Name, float64(inv.AmountCents)/100, inv.DueDate.Format("2 Jan 2006"), inv.Description,
		),
	})
}
