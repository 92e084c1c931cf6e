package errors

import (
	"errors"
	"net/http"
)

// Error types for domain errors
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// TransientError marks a failure worth retrying (network or store
// unavailability); callers back off instead of surfacing it as data loss
type TransientError struct {
	Message string
}

func (e *TransientError) Error() string {
	return e.Message
}

// InvalidScheduleError is returned when a stored scheduled_time cannot be
// parsed; the caller falls back to immediate display
type InvalidScheduleError struct {
	Message string
}

func (e *InvalidScheduleError) Error() string {
	return e.Message
}

type DatabaseError struct {
	Message string
}

func (e *DatabaseError) Error() string {
	return e.Message
}

// Constructors
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Message: msg}
}

func NewConflictError(msg string) error {
	return &ConflictError{Message: msg}
}

func NewTransientError(msg string) error {
	return &TransientError{Message: msg}
}

func NewInvalidScheduleError(msg string) error {
	return &InvalidScheduleError{Message: msg}
}

func NewDatabaseError(msg string) error {
	return &DatabaseError{Message: msg}
}

// Type checks
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsTransientError(err error) bool {
	var e *TransientError
	return errors.As(err, &e)
}

func IsInvalidScheduleError(err error) bool {
	var e *InvalidScheduleError
	return errors.As(err, &e)
}

func IsDatabaseError(err error) bool {
	var e *DatabaseError
	return errors.As(err, &e)
}

// Mapper maps domain errors to HTTP status codes
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

func (m *Mapper) MapErrorToHTTP(err error) (int, string) {
	if err == nil {
		return http.StatusOK, ""
	}

	switch {
	case IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case IsInvalidScheduleError(err):
		return http.StatusBadRequest, err.Error()
	case IsNotFoundError(err):
		return http.StatusNotFound, err.Error()
	case IsConflictError(err):
		return http.StatusConflict, err.Error()
	case IsTransientError(err):
		return http.StatusServiceUnavailable, err.Error()
	case IsDatabaseError(err):
		return http.StatusInternalServerError, "internal server error"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
