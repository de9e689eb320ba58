package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/masomo-records/apps/shared"
	"github.com/trezcool/masomo-records/core"
	logsvc "github.com/trezcool/masomo-records/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up storage; the demo store starts empty so that seed and query can be tried on it
	store, err := shared.OpenStore(context.Background(), conf, 0)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}

	// start CLI
	cli := commandLine{
		conf:   conf,
		logger: logger,
		db:     store.DB,
		svc:    store.StudentSvc,
		out:    os.Stdout,
	}
	err = cli.run(os.Args)
	if cErr := store.Close(); cErr != nil {
		logger.Error("Failed to close database", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
