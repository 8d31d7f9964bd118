package responses

import (
	"time"

	"bharatrohan/hangar/internal/models/entities"
)

type DroneSummary struct {
	ID               string     `json:"id"`
	SerialNum        string     `json:"serial_num"`
	ModelName        string     `json:"model_name"`
	TotalFlightHours float64    `json:"total_flight_hours"`
	LastSeen         *time.Time `json:"last_seen"`
	LogCount         int64      `json:"log_count"`
	LastLat          *float64   `json:"last_lat,omitempty"`
	LastLon          *float64   `json:"last_lon,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type FlightLogView struct {
	ID                   string     `json:"id"`
	DroneID              string     `json:"drone_id"`
	FileName             string     `json:"file_name"`
	FileSizeBytes        int64      `json:"file_size_bytes"`
	UploadedAt           time.Time  `json:"uploaded_at"`
	LogDate              *time.Time `json:"log_date"`
	LastLat              *float64   `json:"last_lat"`
	LastLon              *float64   `json:"last_lon"`
	FlightTimeSeconds    *float64   `json:"flight_time_seconds"`
	FlightDistanceMeters *float64   `json:"flight_distance_meters"`
	FirmwareVersion      *string    `json:"firmware_version"`
}

type AlertView struct {
	ID                   string    `json:"id"`
	DroneID              string    `json:"drone_id"`
	SerialNum            string    `json:"serial_num"`
	ModelName            string    `json:"model_name"`
	ThresholdMultiple    int       `json:"threshold_multiple"`
	FlightHoursAtTrigger float64   `json:"flight_hours_at_trigger"`
	CreatedAt            time.Time `json:"created_at"`
}

type DroneDetail struct {
	Drone               DroneSummary               `json:"drone"`
	TotalDistanceMeters float64                    `json:"total_distance_meters"`
	Logs                []FlightLogView            `json:"logs"`
	Notes               []entities.MaintenanceNote `json:"notes"`
	Alerts              []AlertView                `json:"alerts"`
}

type ModelSummary struct {
	Model            string  `json:"model"`
	SerialMin        int     `json:"serial_min"`
	SerialMax        int     `json:"serial_max"`
	DroneCount       int     `json:"drone_count"`
	TotalFlightHours float64 `json:"total_flight_hours"`
	LogCount         int64   `json:"log_count"`
}

// DroneAlertGroup is one banner line: all open alerts of a drone collapsed.
type DroneAlertGroup struct {
	DroneID    string  `json:"drone_id"`
	SerialNum  string  `json:"serial_num"`
	ModelName  string  `json:"model_name"`
	Hours      float64 `json:"hours"`
	AlertCount int     `json:"alert_count"`
	Highest    int     `json:"highest_multiple"`
}

type UploadResult struct {
	Log          FlightLogView     `json:"log"`
	DroneID      string            `json:"drone_id"`
	DroneCreated bool              `json:"drone_created"`
	Maintenance  *AlertCheckResult `json:"maintenance,omitempty"`
}

type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int       `json:"expires_in"`
}
