package constants

const (
	MsgUnauthorized      = "Unauthorized"
	MsgInvalidJSON       = "Invalid JSON"
	MsgInternalError     = "Internal server error"
	MsgDroneNotFound     = "Drone not found"
	MsgLogNotFound       = "Flight log not found"
	MsgAlertNotFound     = "Alert not found"
	MsgNoteNotFound      = "Maintenance note not found"
	MsgModelNotFound     = "Unknown drone model"
	MsgInvalidUpload     = "Invalid flight log upload"
	MsgInvalidNote       = "Note text is required"
	MsgInvalidDownload   = "Invalid or expired download link"
	MsgRateLimitExceeded = "Rate limit exceeded. Please try again later."
	MsgDownloadsDisabled = "Download links are not configured"
	MsgUploadTooLarge    = "Flight log exceeds the upload size limit"
)
