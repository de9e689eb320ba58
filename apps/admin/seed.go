package main

import (
	"context"
	"fmt"

	dummydb "github.com/trezcool/masomo-records/storage/database/dummy"
)

// seed adds n demo students with every metric filled in.
func (cli *commandLine) seed(n int) error {
	students, err := dummydb.Seed(context.Background(), cli.svc, n)
	if err != nil {
		return err
	}
	cli.logger.Info(fmt.Sprintf("seeded %d students", len(students)))
	return nil
}
