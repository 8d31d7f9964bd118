package db

import (
	"fmt"

	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/models/gorm"

	"gorm.io/driver/postgres"
	gormlib "gorm.io/gorm"
)

func InitPostgresORM(dsn string) (*gormlib.DB, error) {
	db, err := gormlib.Open(postgres.Open(dsn), &gormlib.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// Migrate creates or updates the fleet tables, including the
// (drone_id, threshold_multiple) unique index the alert writer depends on.
func Migrate(db *gormlib.DB) error {
	if err := db.AutoMigrate(
		&gorm.Drone{},
		&gorm.FlightLog{},
		&gorm.DroneAlert{},
		&gorm.MaintenanceNote{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
