package program

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("program not found")

type (
	Repository interface {
		CreateProgram(ctx context.Context, prg Program) (Program, error)
		GetProgramByID(ctx context.Context, id string) (Program, error)
		QueryProgramsBySchool(ctx context.Context, schoolID string) ([]Program, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, np NewProgram) (Program, error) {
	now := time.Now().UTC()
	prg := Program{
		SchoolID:  np.SchoolID,
		Name:      np.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateProgram(ctx, prg)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Program, error) {
	return svc.repo.GetProgramByID(ctx, id)
}

func (svc *Service) QueryBySchool(ctx context.Context, schoolID string) ([]Program, error) {
	return svc.repo.QueryProgramsBySchool(ctx, schoolID)
}
