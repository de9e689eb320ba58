package dummydb

import (
	"sync"

	"github.com/trezcool/masomo-records/core/student"
)

type (
	DB struct {
		student *studentTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
		order []string // insertion order of ids
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[string]*student.Student)},
	}
	return db, nil
}
