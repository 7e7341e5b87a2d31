package inspection

import (
	"time"

	"github.com/inspectra/inspectra-core/internal/device"
)

// Status is the overall outcome of an inspection.
type Status string

// Overall inspection statuses.
const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusPassed     Status = "PASSED"
	StatusFailed     Status = "FAILED"
)

// Final returns true if the status is a valid finalisation outcome.
func (s Status) Final() bool {
	return s == StatusPassed || s == StatusFailed
}

// ResultStatus is the per-device test outcome.
type ResultStatus string

// Per-device result statuses.
const (
	ResultNotTested ResultStatus = "NOT_TESTED"
	ResultPass      ResultStatus = "PASS"
	ResultFail      ResultStatus = "FAIL"
	ResultNA        ResultStatus = "NA"
)

// Valid returns true if the result status is a recognised value.
func (s ResultStatus) Valid() bool {
	switch s {
	case ResultNotTested, ResultPass, ResultFail, ResultNA:
		return true
	}
	return false
}

// Inspection represents one walk of a panel's device checklist.
type Inspection struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	// PanelID references the inspected panel.
	PanelID string `json:"panel_id"`

	// InspectorName is who performed the inspection.
	InspectorName string `json:"inspector_name"`

	// Notes holds free-form commentary.
	Notes string `json:"notes"`

	// OverallStatus is IN_PROGRESS until finalised.
	OverallStatus Status `json:"overall_status"`

	// StartedAt is when the inspection was started.
	StartedAt time.Time `json:"started_at"`

	// UpdatedAt is when the inspection was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Result is one device's outcome within an inspection. Exactly one
// result exists per (inspection, device) pair.
type Result struct {
	ID           string       `json:"id"`
	InspectionID string       `json:"inspection_id"`
	DeviceID     string       `json:"device_id"`
	Status       ResultStatus `json:"status"`
	Comment      string       `json:"comment"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ChecklistItem pairs a device with its result for checklist reads.
type ChecklistItem struct {
	Device device.Device `json:"device"`
	Result Result        `json:"result"`
}

// Counts summarises checklist completion for callers that enforce
// 100%-tested policies before finalising.
type Counts struct {
	Total     int `json:"total"`
	NotTested int `json:"not_tested"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	NA        int `json:"na"`
}

// Checklist is the full read model for an inspection: the inspection
// itself plus one row per device in its snapshot, in zone order.
type Checklist struct {
	Inspection Inspection      `json:"inspection"`
	Items      []ChecklistItem `json:"items"`
	Counts     Counts          `json:"counts"`
}
