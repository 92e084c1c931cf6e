package domain

import "errors"

var (
	// ErrContentNotFound is returned when content is not found
	ErrContentNotFound = errors.New("content not found")

	// ErrPreferenceNotFound is returned when no delay preference is stored
	ErrPreferenceNotFound = errors.New("message preference not found")

	// ErrViewNotFound is returned when no view is recorded for the key
	ErrViewNotFound = errors.New("view not found")

	// ErrReactionNotFound is returned when no reaction is recorded for the key
	ErrReactionNotFound = errors.New("reaction not found")

	// ErrReactionExists is returned when a reaction insert hits the
	// (content, employee) uniqueness constraint
	ErrReactionExists = errors.New("reaction already exists")

	// ErrDeviceNotFound is returned when no heartbeat record exists
	ErrDeviceNotFound = errors.New("device not found")

	// ErrDatabaseOperation is returned when a database operation fails
	ErrDatabaseOperation = errors.New("database operation failed")
)
