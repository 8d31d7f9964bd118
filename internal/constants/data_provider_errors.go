package constants

// External provider error codes
const (
	ErrCodeInvalidAPIKey    = "INVALID_API_KEY"
	ErrCodeNetworkError     = "NETWORK_ERROR"
	ErrCodeUpstreamRejected = "UPSTREAM_REJECTED"
)
