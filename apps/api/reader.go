package main

import (
	"context"

	"github.com/leonsilipetar/cadenza/core/enroll"
	"github.com/leonsilipetar/cadenza/core/program"
	"github.com/leonsilipetar/cadenza/core/user"
)

// resolverReader satisfies enroll.Reader over the storage repositories.
type resolverReader struct {
	programs    program.Repository
	users       user.Repository
	enrollments enroll.Repository
}

var _ enroll.Reader = resolverReader{}

func (r resolverReader) GetProgramByID(ctx context.Context, id string) (program.Program, error) {
	return r.programs.GetProgramByID(ctx, id)
}

func (r resolverReader) GetUserWithPrograms(ctx context.Context, id string) (user.User, error) {
	return r.users.GetUserWithPrograms(ctx, id)
}

func (r resolverReader) GetLatestEnrollment(ctx context.Context, userID string) (enroll.Enrollment, error) {
	return r.enrollments.GetLatestEnrollment(ctx, userID)
}
