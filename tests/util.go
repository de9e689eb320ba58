package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/filter"
	"github.com/trezcool/masomo-records/core/student"
	logsvc "github.com/trezcool/masomo-records/services/logger"
	dummydb "github.com/trezcool/masomo-records/storage/database/dummy"
)

// NewConfig returns the configuration tests run with; it does not read the environment.
func NewConfig() *core.Config {
	return &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "Student Records",
		Build:     "test",
		SecretKey: "secret",
		Server: core.ServerConfig{
			Host:               "localhost",
			ShutdownTimeout:    time.Second,
			JWTExpirationDelta: 10 * time.Minute,
			DisableReqLogs:     true,
		},
		Database: core.DatabaseConfig{Demo: true},
		Table:    core.TableConfig{DefaultPageSize: 10, MaxPageSize: 100},
	}
}

// NewLogger returns a logger that reports nowhere.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func NewValidator() *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())
	return validate
}

// NewStudentService returns a service over a fresh in-memory store and the demo options graph.
func NewStudentService(t *testing.T) *student.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return student.NewService(dummydb.NewStudentRepository(db), filter.DemoGraph())
}

func CreateStudent(t *testing.T, svc *student.Service, number, lastName, firstName, college, program string) student.Student {
	s, err := svc.Create(context.Background(), student.NewStudent{
		StudentNumber: number,
		LastName:      lastName,
		FirstName:     firstName,
		College:       college,
		Program:       program,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}
