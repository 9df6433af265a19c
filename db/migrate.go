package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"go-bank-ledger/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration embedded in the binary.
func Migrate(conn *sql.DB, dbName string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{DatabaseName: dbName})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create postgres migration driver")
		return fmt.Errorf("failed to create postgres driver instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Log.Info("No new migrations found. Skipping...")
			return nil
		}
		var dirtyErr migrate.ErrDirty
		if errors.As(err, &dirtyErr) {
			logger.Log.WithField("version", dirtyErr.Version).Error("Migration left a dirty database version")
			return fmt.Errorf("migration failed: dirty database version %d", dirtyErr.Version)
		}
		logger.Log.WithError(err).Error("Migration failed")
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, _ := m.Version()
	logger.Log.WithField("version", version).Info("Database migrations applied")
	return nil
}
