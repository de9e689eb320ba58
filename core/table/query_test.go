package table

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-records/core"
)

func TestQuery_ToggleSort(t *testing.T) {
	q := NewQuery(10)

	q = q.ToggleSort("name")
	assert.Equal(t, "name", q.SortKey)
	assert.Equal(t, Asc, q.SortDirection)

	q = q.ToggleSort("name")
	assert.Equal(t, "name", q.SortKey)
	assert.Equal(t, Desc, q.SortDirection)

	q = q.ToggleSort("name")
	assert.Equal(t, "", q.SortKey)
	assert.Equal(t, Asc, q.SortDirection)

	// another column always restarts ascending
	q = q.ToggleSort("name").ToggleSort("name").ToggleSort("age")
	assert.Equal(t, "age", q.SortKey)
	assert.Equal(t, Asc, q.SortDirection)

	// page and search are kept
	q = Query{Search: "maria", Page: 3, PageSize: 10}.ToggleSort("age")
	assert.Equal(t, "maria", q.Search)
	assert.Equal(t, 3, q.Page)
}

func TestQuery_Validate(t *testing.T) {
	tests := []struct {
		name       string
		q          Query
		wantFields map[string]string
	}{
		{name: "valid", q: Query{Page: 1, PageSize: 10, SortDirection: Asc}},
		{name: "page out of range is fine", q: Query{Page: -1, PageSize: 10}},
		{name: "zero page size", q: Query{Page: 1}, wantFields: map[string]string{"per_page": "page size must be greater than 0"}},
		{name: "negative page size", q: Query{PageSize: -5}, wantFields: map[string]string{"per_page": "page size must be greater than 0"}},
		{name: "page size above max", q: Query{PageSize: 500}, wantFields: map[string]string{"per_page": "page size must be at most 100"}},
		{
			name: "unknown direction", q: Query{PageSize: 10, SortDirection: "up"},
			wantFields: map[string]string{"sort_direction": "sort direction must be one of asc, desc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate(100)
			if tt.wantFields == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			require.True(t, ok, "Validate() error = %v, want *core.ValidationError", err)
			assert.Equal(t, ErrInvalidQuery, vErr.Err)
			assert.Equal(t, tt.wantFields, vErr.FieldMap())
		})
	}
}

func TestQuery_Ordering(t *testing.T) {
	tests := []struct {
		orderings []core.DBOrdering
		wantKey   string
		wantDir   Direction
		want      string
	}{
		{orderings: nil, wantKey: "", wantDir: Asc, want: ""},
		{orderings: core.ParseOrderings("name"), wantKey: "name", wantDir: Asc, want: "name"},
		{orderings: core.ParseOrderings("-grades.1Y-1S,name"), wantKey: "grades.1Y-1S", wantDir: Desc, want: "-grades.1Y-1S"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			q := Query{SortKey: "lol", SortDirection: Desc}
			q.ApplyOrderings(tt.orderings)
			assert.Equal(t, tt.wantKey, q.SortKey)
			assert.Equal(t, tt.wantDir, q.SortDirection)
			assert.Equal(t, tt.want, q.Ordering())
		})
	}
}

func TestColumns(t *testing.T) {
	q := Query{SortKey: "name", SortDirection: Desc}
	cols := Columns(q, ColumnDef{Key: "student_number", Label: "Student Number"}, ColumnDef{Key: "name", Label: "Name"})
	assert.Equal(t, []Column{
		{Key: "student_number", Label: "Student Number", NextOrdering: "student_number"},
		{Key: "name", Label: "Name", Active: true, Direction: Desc, NextOrdering: ""},
	}, cols)

	q.SortDirection = Asc
	assert.Equal(t, "-name", Columns(q, ColumnDef{Key: "name"})[0].NextOrdering)
}

func TestPagination_Links(t *testing.T) {
	p := NewPagination(45, 3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
	assert.Equal(t, []Link{
		{Label: PreviousLabel, Page: 2, Enabled: true},
		{Label: "1", Page: 1, Enabled: true},
		{Label: "2", Page: 2, Enabled: true},
		{Label: "3", Page: 3, Active: true, Enabled: true},
		{Label: "4", Page: 4, Enabled: true},
		{Label: "5", Page: 5, Enabled: true},
		{Label: NextLabel, Page: 4, Enabled: true},
	}, p.Links())

	links := NewPagination(45, 5, 10).Links()
	require.Len(t, links, 7)
	assert.True(t, links[0].Enabled)
	assert.False(t, links[6].Enabled)
	assert.Equal(t, 0, links[6].Page)

	links = NewPagination(45, 1, 10).Links()
	assert.False(t, links[0].Enabled)
	assert.Equal(t, 0, links[0].Page)
}

func TestPageResult_WithURLs(t *testing.T) {
	res := Paginate(make([]Row, 25), 1, 10).WithURLs(func(page int) string {
		return "/v1/students?page=" + string(rune('0'+page))
	})
	assert.Equal(t, "", res.Links[0].URL) // disabled
	assert.Equal(t, "/v1/students?page=1", res.Links[1].URL)
	assert.Equal(t, "/v1/students?page=3", res.Links[3].URL)
	assert.Equal(t, "/v1/students?page=2", res.Links[4].URL)
}
