// Package dummydb is an in-memory storage implementation for tests.
package dummydb

import (
	"sync"

	"github.com/phoenixdev100/tap/core/assignment"
	"github.com/phoenixdev100/tap/core/attendance"
	"github.com/phoenixdev100/tap/core/note"
	"github.com/phoenixdev100/tap/core/schedule"
	"github.com/phoenixdev100/tap/core/user"
)

type (
	DB struct {
		user       *userTable
		schedule   *scheduleTable
		assignment *assignmentTable
		attendance *attendanceTable
		note       *noteTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	scheduleTable struct {
		sync.RWMutex
		table map[string]*schedule.Entry
	}

	assignmentTable struct {
		sync.RWMutex
		table map[string]*assignment.Assignment
		subs  map[string]*assignment.Submission // assignmentID + "/" + studentID
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
	}

	noteTable struct {
		sync.RWMutex
		table map[string]*note.Note
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		schedule: &scheduleTable{table: make(map[string]*schedule.Entry)},
		assignment: &assignmentTable{
			table: make(map[string]*assignment.Assignment),
			subs:  make(map[string]*assignment.Submission),
		},
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
		note:       &noteTable{table: make(map[string]*note.Note)},
	}
	return db, nil
}
