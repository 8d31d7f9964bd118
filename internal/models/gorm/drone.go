package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// Drone is a fleet registry entry, created on its first log upload.
type Drone struct {
	ID        string `gorm:"column:id;primaryKey;type:uuid"`
	SerialNum string `gorm:"column:serial_num;type:varchar(32);not null;uniqueIndex"`
	ModelName string `gorm:"column:model_name;type:varchar(50)"`

	// TotalFlightHours is a display cache refreshed on upload. The alert
	// core always recomputes from flight_logs instead.
	TotalFlightHours float64 `gorm:"column:total_flight_hours;type:double precision;not null;default:0"`

	LastSeen  *time.Time `gorm:"column:last_seen"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Drone) TableName() string {
	return "drones"
}

func (d *Drone) BeforeCreate(tx *gormlib.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
