package dummydb

import (
	"context"
	"sync"

	"github.com/leonsilipetar/cadenza/core"
	"github.com/leonsilipetar/cadenza/core/enroll"
	"github.com/leonsilipetar/cadenza/core/invoice"
	"github.com/leonsilipetar/cadenza/core/mentor"
	"github.com/leonsilipetar/cadenza/core/program"
	"github.com/leonsilipetar/cadenza/core/school"
	"github.com/leonsilipetar/cadenza/core/user"
)

type (
	DB struct {
		// txMu serializes InTx blocks the way the row lock serializes
		// concurrent accept transactions on a real database.
		txMu sync.Mutex

		user       *userTable
		school     *schoolTable
		program    *programTable
		mentor     *mentorTable
		invoice    *invoiceTable
		enrollment *enrollmentTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	schoolTable struct {
		sync.RWMutex
		table map[string]*school.School
	}

	programTable struct {
		sync.RWMutex
		table map[string]*program.Program
	}

	mentorTable struct {
		sync.RWMutex
		table map[string]*mentor.Mentor
	}

	invoiceTable struct {
		sync.RWMutex
		table map[string]*invoice.Invoice
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*enroll.Enrollment
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		school:     &schoolTable{table: make(map[string]*school.School)},
		program:    &programTable{table: make(map[string]*program.Program)},
		mentor:     &mentorTable{table: make(map[string]*mentor.Mentor)},
		invoice:    &invoiceTable{table: make(map[string]*invoice.Invoice)},
		enrollment: &enrollmentTable{table: make(map[string]*enroll.Enrollment)},
	}
	return db, nil
}

var _ enroll.Transactor = (*DB)(nil)

// InTx runs fn under an exclusive lock; a second caller blocks until the
// first's block returns, mirroring the row-lock serialization of the real
// storage layer. The passed executor is nil and must not be used directly.
func (db *DB) InTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()
	return fn(nil)
}
