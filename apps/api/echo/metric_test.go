package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/student"
	"github.com/trezcool/masomo-records/core/table"
	dummydb "github.com/trezcool/masomo-records/storage/database/dummy"
)

func TestMetricAPI_views(t *testing.T) {
	env := setup(t)
	token := env.token(t, core.RoleStaff)

	tests := []struct {
		group   string
		wantLen int
	}{
		{"", 10},
		{student.GroupAcademic, 7},
		{student.GroupProgram, 3},
	}
	for _, tt := range tests {
		t.Run("group="+tt.group, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/metrics?group="+tt.group, token)
			env.serve(req, rec)
			require.Equal(t, http.StatusOK, rec.Code)

			var views []student.View
			unmarshalBody(t, rec, &views)
			assert.Len(t, views, tt.wantLen)
			for _, v := range views {
				if tt.group != "" {
					assert.Equal(t, tt.group, v.Group)
				}
			}
		})
	}

	req, rec := newAuthRequest(http.MethodGet, "/v1/metrics?group=lol", token)
	env.serve(req, rec)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marshalObj(t, map[string]string{"group": "group must be one of academic, program"}),
	}, rec)
}

func TestMetricAPI_query(t *testing.T) {
	env := setup(t)
	_, err := dummydb.Seed(context.Background(), env.svc, 20)
	require.NoError(t, err)
	token := env.token(t, core.RoleStaff)

	t.Run("flat columns", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/metrics/attendance?ordering=-attended&per_page=5", token)
		env.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body pageBody
		unmarshalBody(t, rec, &body)
		assert.Equal(t, 20, body.Total)
		assert.Equal(t, 4, body.LastPage)
		assert.Len(t, body.Data, 5)

		keys := make([]string, 0, len(body.Columns))
		for _, col := range body.Columns {
			keys = append(keys, col.Key)
		}
		assert.Equal(t, []string{"student_number", "name", "attended", "total"}, keys)
		assert.True(t, body.Columns[2].Active)
		assert.Equal(t, table.Desc, body.Columns[2].Direction)
	})

	t.Run("term columns", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/metrics/gwa?program=bsmt", token)
		env.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body pageBody
		unmarshalBody(t, rec, &body)
		require.NotEmpty(t, body.Columns)
		assert.Equal(t, "grades.5Y-2S", body.Columns[len(body.Columns)-1].Key)
		for _, row := range body.Data {
			assert.Equal(t, "BSMT", row["program"])
			assert.IsType(t, map[string]interface{}{}, row["grades"])
		}
	})

	t.Run("search", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/metrics/licensure?search=202500001", token)
		env.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body pageBody
		unmarshalBody(t, rec, &body)
		require.Equal(t, 1, body.Total)
		assert.Equal(t, "202500001", body.Data[0]["student_number"])
	})

	t.Run("unknown metric", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/metrics/lol", token)
		env.serve(req, rec)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "not found"})}, rec)
	})
}
