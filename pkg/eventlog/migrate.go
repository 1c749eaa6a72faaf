package eventlog

import (
	"fmt"

	"github.com/cenkalti/backoff"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// Migrate brings the event log schema at connStr up to date with the
// migrations under source. Unlike the OMS's migration tool, there is
// only one database here — no store/operator split to coordinate —
// so this needs neither a singleton instance nor a mutex serializing
// concurrent callers; a process migrates its one schema once at boot.
func Migrate(source, connStr string) error {
	fmt.Println("migrating event log schema...")

	mg, err := migrate.New(source, connStr)
	if err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	defer mg.Close()

	version, dirty, err := mg.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		if err := mg.Force(int(version) - 1); err != nil {
			return fmt.Errorf("force clean migration version: %w", err)
		}
	}

	if err := mg.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	fmt.Println("event log migration done.")
	return nil
}

// CreateDBAndMigrate connects to Postgres with backoff, then brings
// the event log schema up to date before returning the handle.
func CreateDBAndMigrate(cfg *PostgresConfig, migrationSource string) (*gorm.DB, error) {
	var db *gorm.DB
	boff := backoff.NewExponentialBackOff()

	err := backoff.Retry(func() error {
		var errNested error
		db, errNested = InitPostgres(cfg)
		if errNested != nil {
			fmt.Printf("connect event log postgres error %s \n", errNested.Error())
		} else {
			fmt.Println("connect event log postgres successful.")
		}
		return errNested
	}, boff)
	if err != nil {
		return nil, fmt.Errorf("connect event log postgres: %w", err)
	}

	if err := Migrate(migrationSource, cfg.MigrationConnURL); err != nil {
		return nil, err
	}
	return db, nil
}
