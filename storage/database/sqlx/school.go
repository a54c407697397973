package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/leonsilipetar/cadenza/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo schoolRepository) CreateSchool(ctx context.Context, sch school.School) (school.School, error) {
	sch.ID = uuid.New().String()
	query := `INSERT INTO "school" (id, name, address, is_active, created_at, updated_at)
VALUES (:id, :name, :address, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, sch); err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	return sch, nil
}

func (repo schoolRepository) GetSchoolByID(ctx context.Context, id string) (school.School, error) {
	if _, err := uuid.Parse(id); err != nil {
		return school.School{}, school.ErrNotFound
	}
	var sch school.School
	if err := repo.db.GetContext(ctx, &sch, `SELECT * FROM "school" WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, errors.Wrap(err, "finding school")
	}
	return sch, nil
}

func (repo schoolRepository) QuerySchools(ctx context.Context) ([]school.School, error) {
	var schools []school.School
	if err := repo.db.SelectContext(ctx, &schools, `SELECT * FROM "school" ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	return schools, nil
}
