package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/filter"
	"github.com/trezcool/masomo-records/core/student"
)

func fieldState(t *testing.T, st filter.State, name string) filter.FieldState {
	for _, fld := range st.Fields {
		if fld.Name == name {
			return fld
		}
	}
	t.Fatalf("field %q not in state of %s", name, st.Form)
	return filter.FieldState{}
}

func TestFilterAPI_list(t *testing.T) {
	env := setup(t)
	req, rec := newAuthRequest(http.MethodGet, "/v1/filters", env.token(t, core.RoleStaff))
	env.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)

	var states []filter.State
	unmarshalBody(t, rec, &states)
	names := make([]string, 0, len(states))
	for _, st := range states {
		names = append(names, st.Form)
		assert.False(t, st.Complete)
	}
	assert.Equal(t, []string{filter.StudentInfo, filter.AcademicProfile, filter.ProgramMetrics, filter.ReportGeneration, filter.StudentEntry}, names)
}

func TestFilterAPI_retrieve(t *testing.T) {
	env := setup(t)
	token := env.token(t, core.RoleStaff)

	tests := []httpTest{
		{name: "unknown form", path: "/v1/filters/lol", wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "not found"})},
		{name: "unknown mode", path: "/v1/filters/student-info?mode=lol", wantCode: http.StatusBadRequest, wantData: marshalObj(t, map[string]string{"mode": filter.ErrUnknownMode.Error()})},
		{name: "no token", path: "/v1/filters/student-info", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tkn := token
			if tt.name == "no token" {
				tkn = ""
			}
			req, rec := newAuthRequest(http.MethodGet, tt.path, tkn)
			env.serve(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/filters/student-info?mode=batch", token)
	env.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)
	var res FilterResponse
	unmarshalBody(t, rec, &res)
	assert.Equal(t, filter.BatchMode, res.Mode)
	assert.Equal(t, "batch_college", res.Fields[0].Name)
	assert.True(t, fieldState(t, res.State, "batch_program").Disabled)
	assert.Equal(t, "Select College first", fieldState(t, res.State, "batch_program").Placeholder)
}

func TestFilterAPI_setField(t *testing.T) {
	env := setup(t)
	token := env.token(t, core.RoleStaff)
	path := "/v1/filters/" + filter.StudentInfo

	post := func(t *testing.T, body interface{}) (FilterResponse, int) {
		req, rec := newAuthRequest(http.MethodPost, path, token, marshalObj(t, body))
		env.serve(req, rec)
		var res FilterResponse
		if rec.Code == http.StatusOK {
			unmarshalBody(t, rec, &res)
		}
		return res, rec.Code
	}

	t.Run("cascade", func(t *testing.T) {
		res, code := post(t, FilterRequest{
			Values: map[string]string{"academic_year": "2024-2025"},
			Field:  "college",
			Value:  "CAS",
		})
		require.Equal(t, http.StatusOK, code)
		program := fieldState(t, res.State, "program")
		assert.False(t, program.Disabled)
		assert.Equal(t, []filter.Option{
			{Value: "BSPSY", Label: "BS Psychology"},
			{Value: "BSIT", Label: "BS Information Technology"},
		}, program.Options)
		assert.True(t, fieldState(t, res.State, "year_level").Disabled)
		assert.Nil(t, res.Filter)
	})

	t.Run("changing an ancestor clears descendants", func(t *testing.T) {
		res, code := post(t, FilterRequest{
			Values: map[string]string{"academic_year": "2024-2025", "college": "CAS", "program": "BSIT", "year_level": "1"},
			Field:  "college",
			Value:  "CMT",
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, filter.Values{"academic_year": "2024-2025", "college": "CMT"}, res.Values)
	})

	t.Run("complete form returns the filter", func(t *testing.T) {
		res, code := post(t, FilterRequest{
			Values: map[string]string{
				"academic_year": "2024-2025",
				"college":       "CAS",
				"program":       "BSIT",
				"year_level":    "1",
				"semester":      "1ST",
			},
			Field: "section",
			Value: "1B",
		})
		require.Equal(t, http.StatusOK, code)
		assert.True(t, res.Complete)
		require.NotNil(t, res.Filter)
		assert.Equal(t, student.Filter{
			College:      "CAS",
			Program:      "BSIT",
			YearLevel:    "1",
			Section:      "1B",
			AcademicYear: "2024-2025",
			Semester:     "1ST",
		}, *res.Filter)
	})

	t.Run("batch mode", func(t *testing.T) {
		res, code := post(t, FilterRequest{
			Mode:   filter.BatchMode,
			Values: map[string]string{"batch_college": "CON", "batch_program": "BSN", "batch_year": "2026"},
			Field:  "board_batch",
			Value:  "2",
		})
		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, res.Filter)
		assert.Equal(t, student.Filter{College: "CON", Program: "BSN", BatchYear: "2026", BoardBatch: "2"}, *res.Filter)
	})

	errTests := []struct {
		name     string
		body     FilterRequest
		wantData map[string]string
	}{
		{
			name:     "field before its ancestors",
			body:     FilterRequest{Field: "program", Value: "BSIT"},
			wantData: map[string]string{"program": filter.ErrInconsistentFieldAccess.Error()},
		},
		{
			name:     "gap in restored values",
			body:     FilterRequest{Values: map[string]string{"academic_year": "2024-2025", "program": "BSIT"}},
			wantData: map[string]string{"program": filter.ErrInconsistentFieldAccess.Error()},
		},
		{
			name:     "option of another parent",
			body:     FilterRequest{Values: map[string]string{"academic_year": "2024-2025", "college": "CAS"}, Field: "program", Value: "BSN"},
			wantData: map[string]string{"program": filter.ErrInvalidOption.Error()},
		},
		{
			name:     "unknown field",
			body:     FilterRequest{Field: "lol", Value: "1"},
			wantData: map[string]string{"lol": filter.ErrUnknownField.Error()},
		},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, path, token, marshalObj(t, tt.body))
			env.serve(req, rec)
			checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marshalObj(t, tt.wantData)}, rec)
		})
	}
}

func TestFilterAPI_reset(t *testing.T) {
	env := setup(t)
	req, rec := newAuthRequest(http.MethodPost, "/v1/filters/student-info/reset", env.token(t, core.RoleStaff), []byte(`{"mode": "batch"}`))
	env.serve(req, rec)
	require.Equal(t, http.StatusOK, rec.Code)

	var res FilterResponse
	unmarshalBody(t, rec, &res)
	assert.Equal(t, filter.BatchMode, res.Mode)
	assert.Empty(t, res.Values)
	assert.False(t, res.Complete)
	assert.False(t, fieldState(t, res.State, "batch_college").Disabled)
}
