package requests

// Change event types emitted by the record store's database webhooks
const (
	ChangeEventInsert = "INSERT"
	ChangeEventUpdate = "UPDATE"
	ChangeEventDelete = "DELETE"
)

// ChangeEvent is the row-change notification posted to the alert trigger.
type ChangeEvent struct {
	Type      string       `json:"type"`
	Table     string       `json:"table,omitempty"`
	Schema    string       `json:"schema,omitempty"`
	Record    *DroneRecord `json:"record"`
	OldRecord *DroneRecord `json:"old_record,omitempty"`
}

// DroneRecord is the subset of a drones row the alert core reads.
// total_flight_hours is carried for logging only and never trusted.
type DroneRecord struct {
	ID               string   `json:"id"`
	SerialNum        string   `json:"serial_num"`
	ModelName        *string  `json:"model_name,omitempty"`
	TotalFlightHours *float64 `json:"total_flight_hours,omitempty"`
	LastSeen         *string  `json:"last_seen,omitempty"`
}
