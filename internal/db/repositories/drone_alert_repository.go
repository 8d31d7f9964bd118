package repositories

import (
	"context"

	"bharatrohan/hangar/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DroneAlertRepo handles drone_alerts table operations
type DroneAlertRepo struct {
	db *gormlib.DB
}

// NewDroneAlertRepo creates a new drone alert repository
func NewDroneAlertRepo(db *gormlib.DB) *DroneAlertRepo {
	return &DroneAlertRepo{db: db}
}

// HighestMultiple returns the largest threshold_multiple recorded for the drone, 0 if none
func (r *DroneAlertRepo) HighestMultiple(ctx context.Context, droneID string) (int, error) {
	var multiples []int

	err := r.db.WithContext(ctx).
		Model(&gorm.DroneAlert{}).
		Where("drone_id = ?", droneID).
		Order("threshold_multiple DESC").
		Limit(1).
		Pluck("threshold_multiple", &multiples).Error
	if err != nil {
		return 0, err
	}

	if len(multiples) == 0 {
		return 0, nil
	}
	return multiples[0], nil
}

// alertInsertChunk bounds the rows per INSERT statement during a catch-up
const alertInsertChunk = 100

// InsertIgnoringDuplicates writes the batch with
// ON CONFLICT (drone_id, threshold_multiple) DO NOTHING.
// Large batches are split into chunks inside one transaction. Rows that
// already exist are skipped silently; the returned count covers only rows
// this call inserted.
func (r *DroneAlertRepo) InsertIgnoringDuplicates(ctx context.Context, alerts []gorm.DroneAlert) (int64, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	var inserted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		inserted = 0
		for start := 0; start < len(alerts); start += alertInsertChunk {
			end := start + alertInsertChunk
			if end > len(alerts) {
				end = len(alerts)
			}
			chunk := alerts[start:end]

			res := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "drone_id"},
					{Name: "threshold_multiple"},
				},
				DoNothing: true,
			}).Create(&chunk)
			if res.Error != nil {
				return res.Error
			}
			inserted += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// ListAll returns every open alert, newest first
func (r *DroneAlertRepo) ListAll(ctx context.Context) ([]gorm.DroneAlert, error) {
	var alerts []gorm.DroneAlert

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("threshold_multiple DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}

	return alerts, nil
}

// ListByDrone returns the drone's alerts in multiple order
func (r *DroneAlertRepo) ListByDrone(ctx context.Context, droneID string) ([]gorm.DroneAlert, error) {
	var alerts []gorm.DroneAlert

	err := r.db.WithContext(ctx).
		Where("drone_id = ?", droneID).
		Order("threshold_multiple ASC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}

	return alerts, nil
}

// Delete removes one alert, the manual acknowledgment path. found is false
// when no row matched.
func (r *DroneAlertRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&gorm.DroneAlert{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
