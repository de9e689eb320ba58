// Package shared wires the storage both apps serve students from.
package shared

import (
	"context"
	"database/sql"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core"
	"github.com/trezcool/masomo-records/core/filter"
	"github.com/trezcool/masomo-records/core/student"
	"github.com/trezcool/masomo-records/storage/database"
	dummydb "github.com/trezcool/masomo-records/storage/database/dummy"
	sqlxrepos "github.com/trezcool/masomo-records/storage/database/sqlx"
)

// DemoRows is the number of students the demo store is seeded with.
const DemoRows = 45

// Store is the student service of an app and the database behind it.
type Store struct {
	StudentSvc *student.Service
	DB         *sql.DB // nil in demo mode
}

func (s Store) Demo() bool {
	return s.DB == nil
}

func (s Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// LoadGraph reads the options graph at conf.OptionsPath, or returns the bundled one.
func LoadGraph(conf *core.Config) (*filter.OptionsGraph, error) {
	if conf.OptionsPath == "" {
		return filter.DemoGraph(), nil
	}
	f, err := os.Open(conf.OptionsPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening options graph")
	}
	defer func() { _ = f.Close() }()
	return filter.LoadGraph(f)
}

// OpenStore returns the in-memory store seeded with seedRows students when conf.Database.Demo is set,
// the migrated postgres database otherwise.
func OpenStore(ctx context.Context, conf *core.Config, seedRows int) (Store, error) {
	graph, err := LoadGraph(conf)
	if err != nil {
		return Store{}, err
	}

	if conf.Database.Demo {
		db, err := dummydb.Open()
		if err != nil {
			return Store{}, errors.Wrap(err, "opening demo database")
		}
		svc := student.NewService(dummydb.NewStudentRepository(db), graph)
		if seedRows > 0 {
			if _, err = dummydb.Seed(ctx, svc, seedRows); err != nil {
				return Store{}, errors.Wrap(err, "seeding demo database")
			}
		}
		return Store{StudentSvc: svc}, nil
	}

	db, err := SetUpDB(conf)
	if err != nil {
		return Store{}, err
	}
	return Store{StudentSvc: student.NewService(sqlxrepos.NewStudentRepository(db), graph), DB: db}, nil
}

func SetUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
