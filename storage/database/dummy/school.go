package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/leonsilipetar/cadenza/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CreateSchool(_ context.Context, sch school.School) (school.School, error) {
	repo.db.school.Lock()
	defer repo.db.school.Unlock()

	sch.ID = uuid.New().String()
	repo.db.school.table[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(_ context.Context, id string) (school.School, error) {
	repo.db.school.RLock()
	defer repo.db.school.RUnlock()

	if sch, ok := repo.db.school.table[id]; ok {
		return *sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) QuerySchools(_ context.Context) ([]school.School, error) {
	repo.db.school.RLock()
	defer repo.db.school.RUnlock()

	schools := make([]school.School, 0, len(repo.db.school.table))
	for _, sch := range repo.db.school.table {
		schools = append(schools, *sch)
	}
	return schools, nil
}
