package patterns

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// MigrationRunner drives the learned_patterns schema forward or backward
// against a Postgres database URL. SQLiteStore creates its own schema
// inline on open; this runner only applies to the Postgres backend.
type MigrationRunner struct {
	migrate *migrate.Migrate
	log     *logrus.Entry
}

// NewMigrationRunner builds a runner from migration files under
// migrationsPath (see migrations/patterns/ for the ones this package
// ships) and a Postgres connection string.
func NewMigrationRunner(databaseURL, migrationsPath string) (*MigrationRunner, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating migration instance: %w", err)
	}
	return &MigrationRunner{migrate: m, log: logrus.WithField("component", "patterns.migrations")}, nil
}

// Up applies all pending migrations.
func (mr *MigrationRunner) Up(ctx context.Context) error {
	mr.log.Info("running pattern store migrations up")

	if err := mr.migrate.Up(); err != nil {
		if err == migrate.ErrNoChange {
			mr.log.Info("no pending migrations")
			return nil
		}
		return fmt.Errorf("running migrations up: %w", err)
	}

	version, dirty, err := mr.migrate.Version()
	if err != nil {
		mr.log.WithError(err).Warn("could not read migration version after up")
	} else {
		mr.log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrations applied")
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (mr *MigrationRunner) Down(ctx context.Context) error {
	mr.log.Info("rolling back one pattern store migration")

	if err := mr.migrate.Steps(-1); err != nil {
		if err == migrate.ErrNoChange {
			mr.log.Info("no migrations to roll back")
			return nil
		}
		return fmt.Errorf("rolling back migration: %w", err)
	}

	version, dirty, err := mr.migrate.Version()
	if err != nil {
		mr.log.WithError(err).Warn("could not read migration version after down")
	} else {
		mr.log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migration rolled back")
	}
	return nil
}

// Version reports the currently applied migration version.
func (mr *MigrationRunner) Version() (uint, bool, error) {
	return mr.migrate.Version()
}

// Close releases the migration runner's source and database handles.
func (mr *MigrationRunner) Close() error {
	sourceErr, dbErr := mr.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("closing migration database: %w", dbErr)
	}
	return nil
}
