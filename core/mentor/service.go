package mentor

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("mentor not found")

type (
	Repository interface {
		CreateMentor(ctx context.Context, mnt Mentor) (Mentor, error)
		GetMentorByID(ctx context.Context, id string) (Mentor, error)
		QueryMentors(ctx context.Context, schoolID string) ([]Mentor, error)
		UpdateMentor(ctx context.Context, mnt Mentor, isActive *bool) (Mentor, error)
		DeleteMentorsByID(ctx context.Context, ids []string) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nm NewMentor) (Mentor, error) {
	now := time.Now().UTC()
	mnt := Mentor{
		SchoolID:  nm.SchoolID,
		Name:      nm.Name,
		Email:     nm.Email,
		Phone:     nm.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateMentor(ctx, mnt)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Mentor, error) {
	return svc.repo.GetMentorByID(ctx, id)
}

// Query returns mentors, optionally restricted to one school.
func (svc *Service) Query(ctx context.Context, schoolID string) ([]Mentor, error) {
	return svc.repo.QueryMentors(ctx, schoolID)
}

func (svc *Service) Update(ctx context.Context, id string, um UpdateMentor) (Mentor, error) {
	mnt := Mentor{
		ID:        id,
		Name:      um.Name,
		Email:     um.Email,
		Phone:     um.Phone,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateMentor(ctx, mnt, um.IsActive)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteMentorsByID(ctx, ids)
	return err
}
