package panel

import "time"

// AddressingMode determines how device identity is derived on a panel.
type AddressingMode string

// Supported addressing modes.
const (
	// AddressingModeZone identifies devices by zone plus description.
	// Used for conventional panels where devices have no loop address.
	AddressingModeZone AddressingMode = "ZONE"

	// AddressingModeAddress identifies devices by their loop address.
	// Used for addressable panels.
	AddressingModeAddress AddressingMode = "ADDRESS"
)

// Valid returns true if the addressing mode is a recognised value.
func (m AddressingMode) Valid() bool {
	return m == AddressingModeZone || m == AddressingModeAddress
}

// Panel represents a fire alarm panel.
type Panel struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	// Name is the human-readable panel name (e.g., "Main Building FACP").
	Name string `json:"name"`

	// Location describes where the panel is installed.
	Location string `json:"location"`

	// Notes holds free-form commentary.
	Notes string `json:"notes"`

	// AddressingMode is fixed at creation and never changes.
	AddressingMode AddressingMode `json:"addressing_mode"`

	// CreatedAt is when the panel was registered.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the panel was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the caller-supplied fields for creating or updating a panel.
type Input struct {
	Name           string         `json:"name"`
	Location       string         `json:"location"`
	Notes          string         `json:"notes"`
	AddressingMode AddressingMode `json:"addressing_mode"`
}
