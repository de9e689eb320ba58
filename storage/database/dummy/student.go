package dummydb

import (
	"context"

	"github.com/trezcool/masomo-records/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

// copyStudent detaches the metrics so callers never share maps with the table.
func copyStudent(s student.Student) student.Student {
	if s.Metrics == nil {
		return s
	}
	metrics := make(map[string]student.MetricValues, len(s.Metrics))
	for name, values := range s.Metrics {
		mv := make(student.MetricValues, len(values))
		for col, val := range values {
			if val != nil {
				v := *val
				val = &v
			}
			mv[col] = val
		}
		metrics[name] = mv
	}
	s.Metrics = metrics
	return s
}

func (repo *studentRepository) query(f student.Filter) []student.Student {
	students := make([]student.Student, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		if s := repo.db.table[id]; f.Match(*s) {
			students = append(students, copyStudent(*s))
		}
	}
	return students
}

func (repo *studentRepository) CheckStudentNumberUniqueness(_ context.Context, number string, excluded ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.table {
		if s.StudentNumber == number && !isExcluded(*s, excluded) {
			return student.ErrStudentNumberExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		repo.db.order = append(repo.db.order, s.ID)
	}
	stored := copyStudent(s)
	repo.db.table[s.ID] = &stored
	return s, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return copyStudent(*s), nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, f student.Filter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(f), nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	current, ok := repo.db.table[s.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s.Metrics = current.Metrics // metrics are only written by SetStudentMetric
	s.CreatedAt = current.CreatedAt
	stored := copyStudent(s)
	repo.db.table[s.ID] = &stored
	return copyStudent(stored), nil
}

func (repo *studentRepository) SetStudentMetric(_ context.Context, id, metric string, values student.MetricValues) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.table[id]
	if !ok {
		return student.ErrNotFound
	}
	updated := copyStudent(student.Student{Metrics: map[string]student.MetricValues{metric: values}})
	if s.Metrics == nil {
		s.Metrics = make(map[string]student.MetricValues)
	}
	s.Metrics[metric] = updated.Metrics[metric]
	return nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	deleted := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			delete(repo.db.table, id)
			deleted[id] = true
		}
	}
	if len(deleted) == 0 {
		return nil
	}
	order := repo.db.order[:0]
	for _, id := range repo.db.order {
		if !deleted[id] {
			order = append(order, id)
		}
	}
	repo.db.order = order
	return nil
}

func isExcluded(s student.Student, excluded []student.Student) bool {
	for _, excl := range excluded {
		if excl.ID == s.ID {
			return true
		}
	}
	return false
}
