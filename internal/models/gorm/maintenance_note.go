package gorm

import "time"

// MaintenanceNote is free text logged against a drone after servicing.
// Reads and writes go through sqlx; the struct exists for migrations.
type MaintenanceNote struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	DroneID   string    `gorm:"column:drone_id;type:uuid;not null;index"`
	Note      string    `gorm:"column:note;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName specifies the table name for GORM
func (MaintenanceNote) TableName() string {
	return "maintenance_notes"
}
