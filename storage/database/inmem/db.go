// Package inmemdb provides map-backed repositories for tests and local hacking.
package inmemdb

import (
	"sync"

	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/submission"
	"github.com/darasahq/darasa/core/user"
)

type (
	DB struct {
		user       *userTable
		course     *courseTable
		enrollment *enrollmentTable
		assignment *assignmentTable
		submission *submissionTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	courseTable struct {
		table   map[int]*course.Course
		pkCount int
		mutex   sync.RWMutex
	}

	enrollmentTable struct {
		table   map[int]*course.Enrollment
		pkCount int
		mutex   sync.RWMutex
	}

	assignmentTable struct {
		table   map[int]*assignment.Assignment
		pkCount int
		mutex   sync.RWMutex
	}

	submissionTable struct {
		table   map[int]*submission.Submission
		pkCount int
		mutex   sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		course:     &courseTable{table: make(map[int]*course.Course)},
		enrollment: &enrollmentTable{table: make(map[int]*course.Enrollment)},
		assignment: &assignmentTable{table: make(map[int]*assignment.Assignment)},
		submission: &submissionTable{table: make(map[int]*submission.Submission)},
	}
}
