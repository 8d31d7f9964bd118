package repositories

import (
	"context"
	"errors"
	"time"

	"bharatrohan/hangar/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DroneRepo handles drones table operations
type DroneRepo struct {
	db *gormlib.DB
}

// NewDroneRepo creates a new drone repository
func NewDroneRepo(db *gormlib.DB) *DroneRepo {
	return &DroneRepo{db: db}
}

// FindOrCreateBySerial returns the drone registered under serial, creating it
// when this is the first time the serial is seen. created reports which
// branch was taken. Concurrent first uploads of the same serial resolve via
// ON CONFLICT (serial_num) DO NOTHING and a re-read.
func (r *DroneRepo) FindOrCreateBySerial(ctx context.Context, drone *gorm.Drone) (*gorm.Drone, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "serial_num"}},
			DoNothing: true,
		}).
		Create(drone)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return drone, true, nil
	}

	existing, err := r.FindBySerial(ctx, drone.SerialNum)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, errors.New("drone vanished after serial conflict")
	}
	return existing, false, nil
}

// FindBySerial returns nil, nil when no drone carries the serial
func (r *DroneRepo) FindBySerial(ctx context.Context, serialNum string) (*gorm.Drone, error) {
	var drone gorm.Drone

	err := r.db.WithContext(ctx).
		Where("serial_num = ?", serialNum).
		First(&drone).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &drone, nil
}

// FindByID returns nil, nil when the drone does not exist
func (r *DroneRepo) FindByID(ctx context.Context, id string) (*gorm.Drone, error) {
	var drone gorm.Drone

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&drone).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &drone, nil
}

// List returns every drone, most recently seen first
func (r *DroneRepo) List(ctx context.Context) ([]gorm.Drone, error) {
	var drones []gorm.Drone

	err := r.db.WithContext(ctx).
		Order("last_seen DESC").
		Order("serial_num ASC").
		Find(&drones).Error
	if err != nil {
		return nil, err
	}

	return drones, nil
}

// ListOrderedBySerial returns every drone ordered by serial number
func (r *DroneRepo) ListOrderedBySerial(ctx context.Context) ([]gorm.Drone, error) {
	var drones []gorm.Drone

	err := r.db.WithContext(ctx).
		Order("serial_num ASC").
		Find(&drones).Error
	if err != nil {
		return nil, err
	}

	return drones, nil
}

// RecordActivity refreshes last_seen and the cached flight-hour total after an upload.
// This is the UPDATE that re-arms maintenance evaluation.
func (r *DroneRepo) RecordActivity(ctx context.Context, id string, seenAt time.Time, totalFlightHours float64) error {
	return r.db.WithContext(ctx).
		Model(&gorm.Drone{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_seen":          seenAt,
			"total_flight_hours": totalFlightHours,
			"updated_at":         time.Now(),
		}).Error
}
