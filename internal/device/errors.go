package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrValidation) {
//	    // handle invalid input
//	}
var (
	// ErrValidation is the sentinel wrapped by every ValidationError.
	ErrValidation = errors.New("device: validation failed")

	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDuplicateKey is the sentinel wrapped by every ConflictError.
	ErrDuplicateKey = errors.New("device: duplicate identity key")
)

// ValidationError reports caller-supplied data that fails the contract.
// Messages are field-level and complete enough for the caller to fix
// and resubmit. Row is the zero-based batch index, or -1 for
// single-device operations.
type ValidationError struct {
	Row      int
	Messages []string
}

// newValidationError builds a ValidationError for a single-device operation.
func newValidationError(messages ...string) *ValidationError {
	return &ValidationError{Row: -1, Messages: messages}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if e.Row >= 0 {
		return fmt.Sprintf("device: validation failed on row %d: %s", e.Row, msg)
	}
	return "device: validation failed: " + msg
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictError reports a storage-level uniqueness violation that the
// application-level duplicate checks did not catch (a race between
// concurrent writers). The caller may retry with fresh data.
type ConflictError struct {
	PanelID string
	cause   error
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("device: identity key conflict on panel %s: %v", e.PanelID, e.cause)
}

// Unwrap allows errors.Is(err, ErrDuplicateKey).
func (e *ConflictError) Unwrap() error {
	return ErrDuplicateKey
}

// mapConstraintError converts a SQLite unique-constraint violation into
// a ConflictError. Other errors pass through unchanged.
func mapConstraintError(err error, panelID string) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint &&
			(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
				sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
			return &ConflictError{PanelID: panelID, cause: err}
		}
	}

	return err
}
