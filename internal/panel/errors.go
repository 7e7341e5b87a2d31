package panel

import "errors"

// Domain errors for the panel package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, panel.ErrPanelNotFound) {
//	    // handle not found case
//	}
var (
	// ErrPanelNotFound is returned when a panel ID does not exist.
	ErrPanelNotFound = errors.New("panel: not found")

	// ErrInvalidName is returned when a panel name is empty.
	ErrInvalidName = errors.New("panel: name is required")

	// ErrInvalidAddressingMode is returned when an addressing mode is not
	// ZONE or ADDRESS.
	ErrInvalidAddressingMode = errors.New("panel: addressing mode must be ZONE or ADDRESS")

	// ErrModeImmutable is returned when an update attempts to change a
	// panel's addressing mode.
	ErrModeImmutable = errors.New("panel: addressing mode cannot be changed after creation")
)
