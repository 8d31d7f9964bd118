package entities

import "time"

// DroneLogStats aggregates a drone's flight_logs rows
type DroneLogStats struct {
	DroneID             string  `db:"drone_id"`
	LogCount            int64   `db:"log_count"`
	TotalFlightSeconds  float64 `db:"total_flight_seconds"`
	TotalDistanceMeters float64 `db:"total_distance_meters"`
}

// DronePosition is the last reported GPS fix of a drone's newest located log
type DronePosition struct {
	DroneID    string    `db:"drone_id"`
	LastLat    float64   `db:"last_lat"`
	LastLon    float64   `db:"last_lon"`
	UploadedAt time.Time `db:"uploaded_at"`
}
