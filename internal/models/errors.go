package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that breaks an entity rule: empty or
	// too-long text, a malformed or past deadline, a duplicate name
	// or title, or a storage limit being reached.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a referenced project or task that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStatus wraps ErrValidation so that callers past the
	// status-parsing boundary can treat it as a plain validation failure.
	ErrInvalidStatus = fmt.Errorf("%w: invalid status", ErrValidation)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
