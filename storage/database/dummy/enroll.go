package dummydb

import (
	"context"
	"sort"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/enroll"
)

type enrollRepository struct {
	db *DB
}

var _ enroll.Repository = (*enrollRepository)(nil) // interface compliance check

func NewEnrollRepository(db *DB) *enrollRepository {
	return &enrollRepository{db: db}
}

// GetEnrollmentForUpdate relies on the InTx lock for serialization; it only
// takes the table read lock for the map access itself.
func (repo *enrollRepository) GetEnrollmentForUpdate(_ context.Context, _ core.DBExecutor, userID, schoolYear string) (enroll.Enrollment, error) {
	return repo.getByUserYear(userID, schoolYear)
}

func (repo *enrollRepository) CreateEnrollment(_ context.Context, _ core.DBExecutor, enr enroll.Enrollment) (enroll.Enrollment, error) {
	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	repo.db.enrollment.table[enr.ID] = &enr
	return enr, nil
}

func (repo *enrollRepository) UpdateEnrollment(_ context.Context, _ core.DBExecutor, enr enroll.Enrollment) (enroll.Enrollment, error) {
	repo.db.enrollment.Lock()
	defer repo.db.enrollment.Unlock()

	orig, ok := repo.db.enrollment.table[enr.ID]
	if !ok {
		return enroll.Enrollment{}, enroll.ErrNotFound
	}
	*orig = enr
	return *orig, nil
}

func (repo *enrollRepository) GetEnrollment(_ context.Context, userID, schoolYear string) (enroll.Enrollment, error) {
	return repo.getByUserYear(userID, schoolYear)
}

func (repo *enrollRepository) GetLatestEnrollment(_ context.Context, userID string) (enroll.Enrollment, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	var latest *enroll.Enrollment
	for _, enr := range repo.db.enrollment.table {
		if enr.UserID != userID {
			continue
		}
		if latest == nil || enr.CreatedAt.After(latest.CreatedAt) {
			latest = enr
		}
	}
	if latest == nil {
		return enroll.Enrollment{}, enroll.ErrNotFound
	}
	return *latest, nil
}

func (repo *enrollRepository) QueryEnrollments(_ context.Context, filter *enroll.QueryFilter, _ []core.DBOrdering) ([]enroll.Enrollment, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	enrollments := make([]enroll.Enrollment, 0, len(repo.db.enrollment.table))
	for _, enr := range repo.db.enrollment.table {
		if filter != nil && !filter.IsEmpty() {
			if filter.SchoolID != "" && enr.SchoolID != filter.SchoolID {
				continue
			}
			if filter.SchoolYear != "" && enr.SchoolYear != filter.SchoolYear {
				continue
			}
			if filter.IsActive != nil && enr.IsActive != *filter.IsActive {
				continue
			}
		}
		enrollments = append(enrollments, *enr)
	}
	sort.Slice(enrollments, func(i, j int) bool { return enrollments[i].CreatedAt.Before(enrollments[j].CreatedAt) })
	return enrollments, nil
}

func (repo *enrollRepository) CountActiveBySchool(_ context.Context, schoolYear string) ([]enroll.SchoolCount, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	counts := make(map[string]int)
	for _, enr := range repo.db.enrollment.table {
		if enr.SchoolYear == schoolYear && enr.IsActive {
			counts[enr.SchoolID]++
		}
	}
	bySchool := make([]enroll.SchoolCount, 0, len(counts))
	for id, n := range counts {
		bySchool = append(bySchool, enroll.SchoolCount{SchoolID: id, Count: n})
	}
	sort.Slice(bySchool, func(i, j int) bool { return bySchool[i].SchoolID < bySchool[j].SchoolID })
	return bySchool, nil
}

func (repo *enrollRepository) CountActiveByProgram(_ context.Context, schoolYear string) ([]enroll.ProgramCount, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	counts := make(map[string]int)
	for _, enr := range repo.db.enrollment.table {
		if enr.SchoolYear == schoolYear && enr.IsActive && enr.ProgramID.Valid {
			counts[enr.ProgramID.String]++
		}
	}
	byProgram := make([]enroll.ProgramCount, 0, len(counts))
	for id, n := range counts {
		byProgram = append(byProgram, enroll.ProgramCount{ProgramID: id, Count: n})
	}
	sort.Slice(byProgram, func(i, j int) bool { return byProgram[i].ProgramID < byProgram[j].ProgramID })
	return byProgram, nil
}

func (repo *enrollRepository) getByUserYear(userID, schoolYear string) (enroll.Enrollment, error) {
	repo.db.enrollment.RLock()
	defer repo.db.enrollment.RUnlock()

	for _, enr := range repo.db.enrollment.table {
		if enr.UserID == userID && enr.SchoolYear == schoolYear {
			return *enr, nil
		}
	}
	return enroll.Enrollment{}, enroll.ErrNotFound
}
