package requests

import "time"

// FlightLogUpload is a parsed multipart upload. Statistics are computed by
// the uploader; the server stores them as given.
type FlightLogUpload struct {
	SerialNum            string
	FileName             string
	FileSizeBytes        int64
	FlightTimeSeconds    *float64
	FlightDistanceMeters *float64
	LastLat              *float64
	LastLon              *float64
	FirmwareVersion      *string
	LogDate              *time.Time
}

type CreateMaintenanceNoteReq struct {
	Note string `json:"note" zog:"note"`
}
