package entities

import "time"

type MaintenanceNote struct {
	ID        string    `db:"id" json:"id"`
	DroneID   string    `db:"drone_id" json:"drone_id"`
	Note      string    `db:"note" json:"note"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
