package api

import (
	"errors"
	"net/http"
	"time"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/services"
)

// handleFleetError maps service errors to appropriate HTTP responses
func handleFleetError(w http.ResponseWriter, initTime time.Time, err error) {
	code := services.FleetErrorCode(err)
	status := mapErrorCodeToHTTPStatus(code)

	if status >= http.StatusInternalServerError {
		logging.Error("Fleet request failed", "code", code, "error", err.Error())
		common.RespondError(w, initTime, err, constants.MsgInternalError, status)
		return
	}

	// Message only: FleetError.Error() would append the wrapped cause
	message := err.Error()
	var fe *services.FleetError
	if errors.As(err, &fe) {
		message = fe.Message
	}
	common.RespondError(w, initTime, nil, message, status)
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(errorCode string) int {
	switch errorCode {
	// 400 Bad Request
	case constants.ErrCodeValidation:
		return http.StatusBadRequest

	// 403 Forbidden
	case constants.ErrCodeInvalidToken:
		return http.StatusForbidden

	// 404 Not Found
	case constants.ErrCodeDroneNotFound,
		constants.ErrCodeLogNotFound,
		constants.ErrCodeAlertNotFound,
		constants.ErrCodeNoteNotFound,
		constants.ErrCodeModelNotFound,
		constants.ErrCodeFileNotFound:
		return http.StatusNotFound

	// 503 Service Unavailable
	case constants.ErrCodeDownloadsDisabled:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
