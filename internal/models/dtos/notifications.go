package dtos

// MaintenanceNotice carries what the chat notification needs about a crossing.
type MaintenanceNotice struct {
	DroneID       string
	SerialNum     string
	ModelName     string
	TotalHours    float64
	IntervalHours float64
	Multiple      int
	NewMultiples  []int
}
