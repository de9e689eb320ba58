package dummydb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-records/core/filter"
	"github.com/trezcool/masomo-records/core/student"
)

var ctx = context.Background()

func newRepo(t *testing.T) student.Repository {
	db, err := Open()
	require.NoError(t, err)
	return NewStudentRepository(db)
}

func TestStudentRepository(t *testing.T) {
	repo := newRepo(t)

	for _, s := range []student.Student{
		{ID: "a", StudentNumber: "100001", College: "CAS", Program: "BSIT"},
		{ID: "b", StudentNumber: "100002", College: "CON", Program: "BSN"},
		{ID: "c", StudentNumber: "100003", College: "CAS", Program: "BSPSY"},
	} {
		_, err := repo.CreateStudent(ctx, s)
		require.NoError(t, err)
	}

	assert.Equal(t, student.ErrStudentNumberExists, repo.CheckStudentNumberUniqueness(ctx, "100002"))
	assert.NoError(t, repo.CheckStudentNumberUniqueness(ctx, "100002", student.Student{ID: "b"}))
	assert.NoError(t, repo.CheckStudentNumberUniqueness(ctx, "100004"))

	got, err := repo.QueryStudents(ctx, student.Filter{College: "CAS"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID, "insertion order")
	assert.Equal(t, "c", got[1].ID)

	v := "1.50"
	require.NoError(t, repo.SetStudentMetric(ctx, "a", "gwa", student.MetricValues{"1Y-1S": &v}))
	v = "changed"
	s, err := repo.GetStudentByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1.50", *s.Metric("gwa")["1Y-1S"], "stored values are copies")

	s.Metrics["gwa"]["1Y-1S"] = nil
	s.LastName = "Reyes"
	s, err = repo.UpdateStudent(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Reyes", s.LastName)
	assert.Equal(t, "1.50", *s.Metric("gwa")["1Y-1S"], "metrics are only written by SetStudentMetric")

	assert.Equal(t, student.ErrNotFound, repo.SetStudentMetric(ctx, "z", "gwa", nil))
	_, err = repo.UpdateStudent(ctx, student.Student{ID: "z"})
	assert.Equal(t, student.ErrNotFound, err)

	require.NoError(t, repo.DeleteStudentsByID(ctx, "a", "b", "z"))
	got, err = repo.QueryStudents(ctx, student.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
	_, err = repo.GetStudentByID(ctx, "a")
	assert.Equal(t, student.ErrNotFound, err)
}

func TestDemoStudents(t *testing.T) {
	g := filter.DemoGraph()
	first := DemoStudents(20, g)
	require.Len(t, first, 20)
	assert.Equal(t, first, DemoStudents(20, g), "demo rows are deterministic")

	seen := make(map[string]bool)
	for _, ns := range first {
		assert.False(t, seen[ns.StudentNumber], "duplicate %s", ns.StudentNumber)
		seen[ns.StudentNumber] = true
		assert.Contains(t, g.KeyedList(filter.Programs, ns.College), filter.Option{Value: ns.Program, Label: filter.Label(g.KeyedList(filter.Programs, ns.College), ns.Program)})
	}

	assert.Empty(t, DemoStudents(5, filter.NewOptionsGraph()))
}

func TestSeed(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	svc := student.NewService(NewStudentRepository(db), filter.DemoGraph())

	students, err := Seed(ctx, svc, 8)
	require.NoError(t, err)
	require.Len(t, students, 8)
	for _, s := range students {
		assert.NotEmpty(t, s.Metric("gwa"))
		assert.NotEmpty(t, s.Metric("attendance"))
	}
}
