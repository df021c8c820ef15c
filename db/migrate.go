package db

import (
	"errors"
	"fmt"

	"caltracker-api/config"
	"caltracker-api/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending migration from cfg.MigrationsPath.
func RunMigrations(cfg config.DatabaseConfig) error {
	log := logger.Log.WithField("path", cfg.MigrationsPath)
	log.Info("Running database migrations")

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.URL())
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.WithField("version", version).WithField("dirty", dirty).Info("Database migrations applied")
	return nil
}
