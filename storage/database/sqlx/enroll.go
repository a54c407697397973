package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/enroll"
)

const enrollmentColumns = "id, user_id, school_id, program_id, mentor_id, school_year, agreement_accepted, agreement_accepted_at, agreement_text, is_active, created_at, updated_at"

type enrollRepository struct {
	db *sqlx.DB
}

var _ enroll.Repository = (*enrollRepository)(nil) // interface compliance check

func NewEnrollRepository(db *sqlx.DB) *enrollRepository {
	return &enrollRepository{db: db}
}

func (repo enrollRepository) scanEnrollment(row *sql.Row) (enroll.Enrollment, error) {
	var enr enroll.Enrollment
	err := row.Scan(
		&enr.ID, &enr.UserID, &enr.SchoolID, &enr.ProgramID, &enr.MentorID, &enr.SchoolYear,
		&enr.AgreementAccepted, &enr.AgreementAcceptedAt, &enr.AgreementText, &enr.IsActive,
		&enr.CreatedAt, &enr.UpdatedAt,
	)
	return enr, err
}

// GetEnrollmentForUpdate locks the row until exec's transaction ends, so
// concurrent accepts for the same (user, school year) serialize on it.
func (repo enrollRepository) GetEnrollmentForUpdate(ctx context.Context, exec core.DBExecutor, userID, schoolYear string) (enroll.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM "enrollment" WHERE user_id = $1 AND school_year = $2 FOR UPDATE`
	enr, err := repo.scanEnrollment(exec.QueryRowContext(ctx, query, userID, schoolYear))
	if err != nil {
		if err == sql.ErrNoRows {
			return enroll.Enrollment{}, enroll.ErrNotFound
		}
		return enroll.Enrollment{}, errors.Wrap(err, "locking enrollment")
	}
	return enr, nil
}

func (repo enrollRepository) CreateEnrollment(ctx context.Context, exec core.DBExecutor, enr enroll.Enrollment) (enroll.Enrollment, error) {
	query := `INSERT INTO "enrollment" (` + enrollmentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := exec.ExecContext(ctx, query,
		enr.ID, enr.UserID, enr.SchoolID, enr.ProgramID, enr.MentorID, enr.SchoolYear,
		enr.AgreementAccepted, enr.AgreementAcceptedAt, enr.AgreementText, enr.IsActive,
		enr.CreatedAt, enr.UpdatedAt,
	)
	if err != nil {
		return enroll.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo enrollRepository) UpdateEnrollment(ctx context.Context, exec core.DBExecutor, enr enroll.Enrollment) (enroll.Enrollment, error) {
	query := `UPDATE "enrollment"
SET agreement_accepted = $1, agreement_accepted_at = $2, agreement_text = $3, is_active = $4, updated_at = $5
WHERE id = $6`
	res, err := exec.ExecContext(ctx, query,
		enr.AgreementAccepted, enr.AgreementAcceptedAt, enr.AgreementText, enr.IsActive, enr.UpdatedAt, enr.ID)
	if err != nil {
		return enroll.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return enroll.Enrollment{}, enroll.ErrNotFound
	}
	return enr, nil
}

func (repo enrollRepository) GetEnrollment(ctx context.Context, userID, schoolYear string) (enroll.Enrollment, error) {
	var enr enroll.Enrollment
	query := `SELECT * FROM "enrollment" WHERE user_id = $1 AND school_year = $2`
	if err := repo.db.GetContext(ctx, &enr, query, userID, schoolYear); err != nil {
		if err == sql.ErrNoRows {
			return enroll.Enrollment{}, enroll.ErrNotFound
		}
		return enroll.Enrollment{}, errors.Wrap(err, "finding enrollment")
	}
	return enr, nil
}

func (repo enrollRepository) GetLatestEnrollment(ctx context.Context, userID string) (enroll.Enrollment, error) {
	var enr enroll.Enrollment
	query := `SELECT * FROM "enrollment" WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	if err := repo.db.GetContext(ctx, &enr, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return enroll.Enrollment{}, enroll.ErrNotFound
		}
		return enroll.Enrollment{}, errors.Wrap(err, "finding latest enrollment")
	}
	return enr, nil
}

func (repo enrollRepository) QueryEnrollments(ctx context.Context, filter *enroll.QueryFilter, ordering []core.DBOrdering) ([]enroll.Enrollment, error) {
	query := `SELECT * FROM "enrollment"`
	var (
		conds []string
		args  []interface{}
	)

	if filter != nil {
		if filter.SchoolID != "" {
			conds = append(conds, "school_id = ?")
			args = append(args, filter.SchoolID)
		}
		if filter.SchoolYear != "" {
			conds = append(conds, "school_year = ?")
			args = append(args, filter.SchoolYear)
		}
		if filter.IsActive != nil {
			conds = append(conds, "is_active = ?")
			args = append(args, *filter.IsActive)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		query += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		query += " ORDER BY created_at"
	}

	var enrollments []enroll.Enrollment
	if err := repo.db.SelectContext(ctx, &enrollments, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	return enrollments, nil
}

func (repo enrollRepository) CountActiveBySchool(ctx context.Context, schoolYear string) ([]enroll.SchoolCount, error) {
	var counts []enroll.SchoolCount
	query := `SELECT school_id, COUNT(*) AS count FROM "enrollment"
WHERE school_year = $1 AND is_active = TRUE
GROUP BY school_id ORDER BY school_id`
	if err := repo.db.SelectContext(ctx, &counts, query, schoolYear); err != nil {
		return nil, errors.Wrap(err, "counting enrollments by school")
	}
	return counts, nil
}

func (repo enrollRepository) CountActiveByProgram(ctx context.Context, schoolYear string) ([]enroll.ProgramCount, error) {
	var counts []enroll.ProgramCount
	query := `SELECT program_id, COUNT(*) AS count FROM "enrollment"
WHERE school_year = $1 AND is_active = TRUE AND program_id IS NOT NULL
GROUP BY program_id ORDER BY program_id`
	if err := repo.db.SelectContext(ctx, &counts, query, schoolYear); err != nil {
		return nil, errors.Wrap(err, "counting enrollments by program")
	}
	return counts, nil
}
