package repositories

import (
	"context"
	"errors"

	"bharatrohan/hangar/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// FlightLogRepo handles flight_logs table operations
type FlightLogRepo struct {
	db *gormlib.DB
}

// NewFlightLogRepo creates a new flight log repository
func NewFlightLogRepo(db *gormlib.DB) *FlightLogRepo {
	return &FlightLogRepo{db: db}
}

// Create appends a flight log row
func (r *FlightLogRepo) Create(ctx context.Context, log *gorm.FlightLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// SumFlightTimeSeconds totals flight_time_seconds over every log of the drone.
// NULL durations count as zero and a drone without logs totals zero.
func (r *FlightLogRepo) SumFlightTimeSeconds(ctx context.Context, droneID string) (float64, error) {
	var total float64

	err := r.db.WithContext(ctx).
		Model(&gorm.FlightLog{}).
		Where("drone_id = ?", droneID).
		Select("COALESCE(SUM(flight_time_seconds), 0)").
		Row().
		Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// ListByDrone returns the drone's logs, newest upload first
func (r *FlightLogRepo) ListByDrone(ctx context.Context, droneID string) ([]gorm.FlightLog, error) {
	var logs []gorm.FlightLog

	err := r.db.WithContext(ctx).
		Where("drone_id = ?", droneID).
		Order("uploaded_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// FindByID returns nil, nil when the log does not exist
func (r *FlightLogRepo) FindByID(ctx context.Context, id string) (*gorm.FlightLog, error) {
	var log gorm.FlightLog

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &log, nil
}
