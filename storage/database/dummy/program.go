package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/leonsilipetar/cadenza/core/program"
)

type programRepository struct {
	db *DB
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db *DB) *programRepository {
	return &programRepository{db: db}
}

func (repo *programRepository) CreateProgram(_ context.Context, prg program.Program) (program.Program, error) {
	repo.db.program.Lock()
	defer repo.db.program.Unlock()

	prg.ID = uuid.New().String()
	repo.db.program.table[prg.ID] = &prg
	return prg, nil
}

func (repo *programRepository) GetProgramByID(_ context.Context, id string) (program.Program, error) {
	repo.db.program.RLock()
	defer repo.db.program.RUnlock()

	if prg, ok := repo.db.program.table[id]; ok {
		return *prg, nil
	}
	return program.Program{}, program.ErrNotFound
}

func (repo *programRepository) QueryProgramsBySchool(_ context.Context, schoolID string) ([]program.Program, error) {
	repo.db.program.RLock()
	defer repo.db.program.RUnlock()

	programs := make([]program.Program, 0)
	for _, prg := range repo.db.program.table {
		if schoolID == "" || prg.SchoolID == schoolID {
			programs = append(programs, *prg)
		}
	}
	return programs, nil
}
