package main

import (
	"context"
	"flag"
	"log"

	"github.com/UnknownOlympus/employee-store/internal/config"
	"github.com/UnknownOlympus/employee-store/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory with goose migrations")
	flag.Parse()

	cfg := config.MustLoad()
	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalf("Migrations apply only to the %q storage driver, configured driver is %q",
			config.DriverPostgres, cfg.Storage.Driver)
	}

	dbpool, dbErr := repository.NewDatabase(context.Background(), cfg.Postgres)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if migrationErr := goose.Up(dtb, *migrationsDir); migrationErr != nil {
		log.Fatalf("Failed to apply migrations: %v", migrationErr)
	}

	log.Println("✅ Migrations applied successfully")
}
