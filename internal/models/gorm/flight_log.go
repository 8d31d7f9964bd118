package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// FlightLog is one uploaded log file with its precomputed flight statistics.
// Rows are append-only.
type FlightLog struct {
	ID      string `gorm:"column:id;primaryKey;type:uuid"`
	DroneID string `gorm:"column:drone_id;type:uuid;not null;index"`

	// File metadata
	FileName      string    `gorm:"column:file_name;type:varchar(255);not null"`
	StoragePath   string    `gorm:"column:storage_path;type:text;not null"`
	FileSizeBytes int64     `gorm:"column:file_size_bytes;not null;default:0"`
	UploadedAt    time.Time `gorm:"column:uploaded_at;not null"`

	// Precomputed statistics
	LogDate              *time.Time `gorm:"column:log_date"`
	LastLat              *float64   `gorm:"column:last_lat;type:double precision"`
	LastLon              *float64   `gorm:"column:last_lon;type:double precision"`
	FlightTimeSeconds    *float64   `gorm:"column:flight_time_seconds;type:double precision"`
	FlightDistanceMeters *float64   `gorm:"column:flight_distance_meters;type:double precision"`
	FirmwareVersion      *string    `gorm:"column:firmware_version;type:varchar(50)"`
}

// TableName specifies the table name for GORM
func (FlightLog) TableName() string {
	return "flight_logs"
}

func (l *FlightLog) BeforeCreate(tx *gormlib.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
