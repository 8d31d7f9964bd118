package constants

// Error codes returned by the fleet services. Handlers map them to HTTP statuses.
const (
	ErrCodeDroneNotFound     = "DRONE_NOT_FOUND"
	ErrCodeLogNotFound       = "LOG_NOT_FOUND"
	ErrCodeAlertNotFound     = "ALERT_NOT_FOUND"
	ErrCodeNoteNotFound      = "NOTE_NOT_FOUND"
	ErrCodeModelNotFound     = "MODEL_NOT_FOUND"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeInvalidToken      = "INVALID_DOWNLOAD_TOKEN"
	ErrCodeDownloadsDisabled = "DOWNLOADS_DISABLED"
	ErrCodeStorage           = "STORAGE_FAILED"
	ErrCodeDatabase          = "DATABASE_ERROR"
)
