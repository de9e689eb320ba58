package main

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/trezcool/masomo-records/storage/database"
)

var errNoDatabase = errors.New("the demo store has no schema to migrate")

type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Version() (version uint, dirty bool, err error)
}

var newMigratorFunc = func(db *sql.DB) (migrator, error) { // mockable
	if db == nil {
		return nil, errNoDatabase
	}
	return database.NewMigrator(db)
}

func (cli *commandLine) migrate(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	var run func(m migrator) error
	switch args[0] {
	case "up":
		run = func(m migrator) error { return m.Up() }
	case "up-by-one":
		run = func(m migrator) error { return m.Steps(1) }
	case "down":
		run = func(m migrator) error { return m.Steps(-1) }
	case "reset":
		run = func(m migrator) error { return m.Down() }
	case "version":
		run = cli.printVersion
	case "force":
		if len(args) < 2 {
			return errors.New("force must be of form: migrate force VERSION")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("version must be a number (got '%s')", args[1])
		}
		run = func(m migrator) error { return m.Force(v) }
	default:
		return fmt.Errorf("%q: no such command", args[0])
	}

	m, err := newMigratorFunc(cli.db)
	if err != nil {
		return err
	}
	if err = run(m); err != nil {
		if err == migrate.ErrNoChange {
			fmt.Fprintln(cli.out, "no change")
			return nil
		}
		return err
	}
	if args[0] != "version" {
		return cli.printVersion(m)
	}
	return nil
}

func (cli *commandLine) printVersion(m migrator) error {
	v, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		fmt.Fprintln(cli.out, "version: none")
		return nil
	}
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cli.out, "version: %d (dirty)\n", v)
		return nil
	}
	fmt.Fprintf(cli.out, "version: %d\n", v)
	return nil
}
