package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Las migraciones viajan dentro del binario: esquema, índice único y datos de ejemplo.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

func newMigrator(databaseURL string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("loading embedded migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}

	return migrator, nil
}

func closeMigrator(migrator *migrate.Migrate) error {
	sourceErr, databaseErr := migrator.Close()
	return errors.Join(sourceErr, databaseErr)
}

// MigrateUp aplica todas las migraciones pendientes.
// Es idempotente: sin cambios pendientes no hace nada.
func MigrateUp(databaseURL string) (err error) {
	migrator, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeMigrator(migrator))
	}()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// MigrateDown revierte steps migraciones. Con steps <= 0 revierte todas.
func MigrateDown(databaseURL string, steps int) (err error) {
	migrator, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeMigrator(migrator))
	}()

	if steps > 0 {
		err = migrator.Steps(-steps)
	} else {
		err = migrator.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("reverting migrations: %w", err)
	}
	return nil
}

// MigrationVersion devuelve la versión aplicada y si quedó en estado dirty.
// Si nunca se migró devuelve 0 sin error.
func MigrationVersion(databaseURL string) (version uint, dirty bool, err error) {
	migrator, err := newMigrator(databaseURL)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		err = errors.Join(err, closeMigrator(migrator))
	}()

	version, dirty, err = migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
