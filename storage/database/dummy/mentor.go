package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/leonsilipetar/cadenza/core/mentor"
)

type mentorRepository struct {
	db *DB
}

var _ mentor.Repository = (*mentorRepository)(nil) // interface compliance check

func NewMentorRepository(db *DB) *mentorRepository {
	return &mentorRepository{db: db}
}

func (repo *mentorRepository) CreateMentor(_ context.Context, mnt mentor.Mentor) (mentor.Mentor, error) {
	repo.db.mentor.Lock()
	defer repo.db.mentor.Unlock()

	mnt.ID = uuid.New().String()
	repo.db.mentor.table[mnt.ID] = &mnt
	return mnt, nil
}

func (repo *mentorRepository) GetMentorByID(_ context.Context, id string) (mentor.Mentor, error) {
	repo.db.mentor.RLock()
	defer repo.db.mentor.RUnlock()

	if mnt, ok := repo.db.mentor.table[id]; ok {
		return *mnt, nil
	}
	return mentor.Mentor{}, mentor.ErrNotFound
}

func (repo *mentorRepository) QueryMentors(_ context.Context, schoolID string) ([]mentor.Mentor, error) {
	repo.db.mentor.RLock()
	defer repo.db.mentor.RUnlock()

	mentors := make([]mentor.Mentor, 0)
	for _, mnt := range repo.db.mentor.table {
		if schoolID == "" || mnt.SchoolID == schoolID {
			mentors = append(mentors, *mnt)
		}
	}
	return mentors, nil
}

func (repo *mentorRepository) UpdateMentor(_ context.Context, mnt mentor.Mentor, isActive *bool) (mentor.Mentor, error) {
	repo.db.mentor.Lock()
	defer repo.db.mentor.Unlock()

	orig, ok := repo.db.mentor.table[mnt.ID]
	if !ok {
		return mentor.Mentor{}, mentor.ErrNotFound
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
	if !mnt.UpdatedAt.IsZero() {
		orig.UpdatedAt = mnt.UpdatedAt
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	return *orig, nil
}

func (repo *mentorRepository) DeleteMentorsByID(_ context.Context, ids []string) (int, error) {
	repo.db.mentor.Lock()
	defer repo.db.mentor.Unlock()

	var cnt int
	for _, id := range ids {
		if _, ok := repo.db.mentor.table[id]; ok {
			delete(repo.db.mentor.table, id)
			cnt++
		}
	}
	return cnt, nil
}
