package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/leonsilipetar/cadenza/core/mentor"
)

type mentorRepository struct {
	db *sqlx.DB
}

var _ mentor.Repository = (*mentorRepository)(nil) // interface compliance check

func NewMentorRepository(db *sqlx.DB) *mentorRepository {
	return &mentorRepository{db: db}
}

func (repo mentorRepository) CreateMentor(ctx context.Context, mnt mentor.Mentor) (mentor.Mentor, error) {
	mnt.ID = uuid.New().String()
	query := `INSERT INTO "mentor" (id, school_id, name, email, phone, is_active, created_at, updated_at)
VALUES (:id, :school_id, :name, :email, :phone, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, mnt); err != nil {
		return mentor.Mentor{}, errors.Wrap(err, "inserting mentor")
	}
	return mnt, nil
}

func (repo mentorRepository) GetMentorByID(ctx context.Context, id string) (mentor.Mentor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return mentor.Mentor{}, mentor.ErrNotFound
	}
	var mnt mentor.Mentor
	if err := repo.db.GetContext(ctx, &mnt, `SELECT * FROM "mentor" WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return mentor.Mentor{}, mentor.ErrNotFound
		}
		return mentor.Mentor{}, errors.Wrap(err, "finding mentor")
	}
	return mnt, nil
}

func (repo mentorRepository) QueryMentors(ctx context.Context, schoolID string) ([]mentor.Mentor, error) {
	var (
		mentors []mentor.Mentor
		err     error
	)
	if schoolID != "" {
		err = repo.db.SelectContext(ctx, &mentors, `SELECT * FROM "mentor" WHERE school_id = $1 ORDER BY created_at`, schoolID)
	} else {
		err = repo.db.SelectContext(ctx, &mentors, `SELECT * FROM "mentor" ORDER BY created_at`)
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying mentors")
	}
	return mentors, nil
}

func (repo mentorRepository) UpdateMentor(ctx context.Context, mnt mentor.Mentor, isActive *bool) (mentor.Mentor, error) {
	orig, err := repo.GetMentorByID(ctx, mnt.ID)
	if err != nil {
		return mentor.Mentor{}, err
	}

	if mnt.Name != "" {
		orig.Name = mnt.Name
	}
	if mnt.Email != "" {
		orig.Email = mnt.Email
	}
	if mnt.Phone != "" {
		orig.Phone = mnt.Phone
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	if !mnt.UpdatedAt.IsZero() {
		orig.UpdatedAt = mnt.UpdatedAt
	}

	query := `UPDATE "mentor"
SET name = :name, email = :email, phone = :phone, is_active = :is_active, updated_at = :updated_at
WHERE id = :id`
	if _, err = repo.db.NamedExecContext(ctx, query, orig); err != nil {
		return mentor.Mentor{}, errors.Wrap(err, "updating mentor")
	}
	return orig, nil
}

func (repo mentorRepository) DeleteMentorsByID(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM "mentor" WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting mentors")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting mentors")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting mentors")
	}
	return int(cnt), nil
}
