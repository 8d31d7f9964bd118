package services

import "fmt"

// AlertErrorKind classifies failures of a maintenance check
type AlertErrorKind string

const (
	AlertErrValidation  AlertErrorKind = "VALIDATION"
	AlertErrPersistence AlertErrorKind = "PERSISTENCE"
)

// AlertCheckError is returned by MaintenanceAlertService. Persistence errors
// are safe for the caller to retry because the alert writer is idempotent.
type AlertCheckError struct {
	Kind    AlertErrorKind
	Message string
	Err     error
}

func (e *AlertCheckError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AlertCheckError) Unwrap() error {
	return e.Err
}

func validationError(msg string) *AlertCheckError {
	return &AlertCheckError{Kind: AlertErrValidation, Message: msg}
}

func persistenceError(msg string, err error) *AlertCheckError {
	return &AlertCheckError{Kind: AlertErrPersistence, Message: msg, Err: err}
}
