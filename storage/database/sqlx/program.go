package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/leonsilipetar/cadenza/core/program"
)

type programRepository struct {
	db *sqlx.DB
}

var _ program.Repository = (*programRepository)(nil) // interface compliance check

func NewProgramRepository(db *sqlx.DB) *programRepository {
	return &programRepository{db: db}
}

func (repo programRepository) CreateProgram(ctx context.Context, prg program.Program) (program.Program, error) {
	prg.ID = uuid.New().String()
	query := `INSERT INTO "program" (id, school_id, name, is_active, created_at, updated_at)
VALUES (:id, :school_id, :name, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, prg); err != nil {
		return program.Program{}, errors.Wrap(err, "inserting program")
	}
	return prg, nil
}

func (repo programRepository) GetProgramByID(ctx context.Context, id string) (program.Program, error) {
	if _, err := uuid.Parse(id); err != nil {
		return program.Program{}, program.ErrNotFound
	}
	var prg program.Program
	if err := repo.db.GetContext(ctx, &prg, `SELECT * FROM "program" WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return program.Program{}, program.ErrNotFound
		}
		return program.Program{}, errors.Wrap(err, "finding program")
	}
	return prg, nil
}

func (repo programRepository) QueryProgramsBySchool(ctx context.Context, schoolID string) ([]program.Program, error) {
	var programs []program.Program
	query := `SELECT * FROM "program" WHERE school_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &programs, query, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying programs")
	}
	return programs, nil
}
