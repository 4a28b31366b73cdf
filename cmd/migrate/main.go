// Command migrate applies or rolls back the ledger schema on Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tour-booking/internal/config"
	"tour-booking/internal/database/migrations"
	"tour-booking/internal/ledger"
	"tour-booking/internal/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	down := flag.Bool("down", false, "roll back all migrations")
	flag.Parse()

	log, err := logger.NewLogger(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if cfg.Database.Driver != "postgres" {
		log.Fatal("CONFIG", fmt.Sprintf("migrate only supports postgres, DB_DRIVER is %q", cfg.Database.Driver))
	}

	bunDB, err := ledger.Open(context.Background(), cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, log)
	defer runner.Close()

	if *down {
		err = runner.MigrateDown()
	} else {
		err = runner.MigrateUp()
	}
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	log.Info("DATABASE", "Migration finished")
}
