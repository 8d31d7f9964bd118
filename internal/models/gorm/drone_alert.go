package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// DroneAlert records that a drone crossed a maintenance interval multiple.
// (drone_id, threshold_multiple) is unique; the writer relies on it to make
// redelivered change events harmless.
type DroneAlert struct {
	ID                   string    `gorm:"column:id;primaryKey;type:uuid"`
	DroneID              string    `gorm:"column:drone_id;type:uuid;not null;uniqueIndex:idx_drone_alerts_drone_multiple,priority:1"`
	SerialNum            string    `gorm:"column:serial_num;type:varchar(32);not null"`
	ModelName            string    `gorm:"column:model_name;type:varchar(50)"`
	ThresholdMultiple    int       `gorm:"column:threshold_multiple;not null;uniqueIndex:idx_drone_alerts_drone_multiple,priority:2"`
	FlightHoursAtTrigger float64   `gorm:"column:flight_hours_at_trigger;type:double precision;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (DroneAlert) TableName() string {
	return "drone_alerts"
}

func (a *DroneAlert) BeforeCreate(tx *gormlib.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
