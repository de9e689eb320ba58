package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/student"
	testutil "github.com/trezcool/masomo-records/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	conf   *core.Config
	svc    *student.Service
	server *Server
}

func setup(t *testing.T) testEnv {
	conf := testutil.NewConfig()
	svc := testutil.NewStudentService(t)
	server := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     testutil.NewLogger(conf),
		StudentSvc: svc,
		Validate:   testutil.NewValidator(),
		Translator: core.NewTranslator(),
	})
	return testEnv{conf: conf, svc: svc, server: server}
}

func (env testEnv) token(t *testing.T, roles ...string) string {
	id := core.Identity{ID: "staff-1", Username: "registrar", Email: "registrar@example.edu", Roles: roles}
	token, err := GenerateToken(env.conf, NewClaims(env.conf, id))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

func (env testEnv) serve(req *http.Request, rec *httptest.ResponseRecorder) {
	env.server.ServeHTTP(rec, req)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func unmarshalBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("unmarshalBody() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func TestHome(t *testing.T) {
	env := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	env.serve(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Student Records API!", rec.Body.String())
}
