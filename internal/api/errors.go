package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inspectra/inspectra-core/internal/device"
	"github.com/inspectra/inspectra-core/internal/inspection"
	"github.com/inspectra/inspectra-core/internal/panel"
)

// Error represents a structured error response.
type Error struct {
	Status  int      `json:"status"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Row     *int     `json:"row,omitempty"`
}

// Common error codes.
const (
	ErrCodeBadRequest = "bad_request"
	ErrCodeNotFound   = "not_found"
	ErrCodeConflict   = "conflict"
	ErrCodeInternal   = "internal_error"
	ErrCodeValidation = "validation_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps a domain error onto an HTTP response.
//
// Validation failures map to 400 with field-level details, missing
// entities to 404, identity key races to 409, and anything else to 500
// with the detail logged rather than leaked.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var verr *device.ValidationError
	if errors.As(err, &verr) {
		resp := Error{
			Status:  http.StatusBadRequest,
			Code:    ErrCodeValidation,
			Message: "validation failed",
			Details: verr.Messages,
		}
		if verr.Row >= 0 {
			row := verr.Row
			resp.Row = &row
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	switch {
	case errors.Is(err, panel.ErrPanelNotFound),
		errors.Is(err, device.ErrDeviceNotFound),
		errors.Is(err, inspection.ErrInspectionNotFound),
		errors.Is(err, inspection.ErrResultNotFound):
		writeNotFound(w, err.Error())

	case errors.Is(err, device.ErrDuplicateKey):
		writeError(w, http.StatusConflict, ErrCodeConflict, err.Error())

	case errors.Is(err, device.ErrValidation),
		errors.Is(err, panel.ErrInvalidName),
		errors.Is(err, panel.ErrInvalidAddressingMode),
		errors.Is(err, panel.ErrModeImmutable),
		errors.Is(err, inspection.ErrInvalidStatus),
		errors.Is(err, inspection.ErrCommentRequired),
		errors.Is(err, inspection.ErrInvalidOverallStatus):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())

	default:
		s.logger.Error("request failed", "error", err)
		writeInternalError(w, "internal server error")
	}
}
