package services

import (
	"errors"
	"fmt"

	"bharatrohan/hangar/internal/constants"
)

// FleetError carries a constants.ErrCode* so handlers can pick a status
type FleetError struct {
	Code    string
	Message string
	Err     error
}

func (e *FleetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FleetError) Unwrap() error {
	return e.Err
}

func newFleetError(code, message string, err error) *FleetError {
	return &FleetError{Code: code, Message: message, Err: err}
}

func dbError(message string, err error) *FleetError {
	return newFleetError(constants.ErrCodeDatabase, message, err)
}

// FleetErrorCode returns the code of err, or "" when err is not a FleetError
func FleetErrorCode(err error) string {
	var fe *FleetError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
