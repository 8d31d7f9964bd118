package responses

// AlertCheckResult is the body of a 200 from the alert trigger. Exactly one
// of Skipped or Alerted is set: Skipped is true for ignored event types or a
// reason string when no new interval was crossed.
type AlertCheckResult struct {
	Skipped  interface{} `json:"skipped,omitempty"`
	Alerted  bool        `json:"alerted,omitempty"`
	Multiple int         `json:"multiple,omitempty"`
	Hours    float64     `json:"hours,omitempty"`

	// NewAlerts counts rows this call inserted; not serialized.
	NewAlerts int64 `json:"-"`
}

type AlertCheckError struct {
	Error string `json:"error"`
}
