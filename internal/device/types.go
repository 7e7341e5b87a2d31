package device

import "time"

// Category classifies a device's function.
type Category string

// Recognised device categories. CategoryOther is the escape hatch for
// equipment outside the fixed set and requires a qualifier.
const (
	CategorySmoke     Category = "Smoke"
	CategoryHeat      Category = "Heat"
	CategoryCO        Category = "CO"
	CategoryCallPoint Category = "Call Point"
	CategorySounder   Category = "Sounder"
	CategoryBeacon    Category = "Beacon"
	CategoryInterface Category = "Interface"
	CategoryOther     Category = "Other"
)

// Valid returns true if the category is a recognised value.
func (c Category) Valid() bool {
	switch c {
	case CategorySmoke, CategoryHeat, CategoryCO, CategoryCallPoint,
		CategorySounder, CategoryBeacon, CategoryInterface, CategoryOther:
		return true
	}
	return false
}

// Device represents a single piece of equipment wired to a panel.
type Device struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	// PanelID references the owning panel.
	PanelID string `json:"panel_id"`

	// Zone is the zone label. Required on every device regardless of
	// the panel's addressing mode.
	Zone string `json:"zone"`

	// Address is the loop address. Required on ADDRESS panels,
	// optional otherwise.
	Address string `json:"address"`

	// Category classifies the device.
	Category Category `json:"category"`

	// CategoryOther qualifies the Other category. Empty for all
	// other categories.
	CategoryOther string `json:"category_other"`

	// Description is free-text placement/identification detail.
	// On ZONE panels it participates in the identity key.
	Description string `json:"description"`

	// Notes holds free-form commentary.
	Notes string `json:"notes"`

	// identityKey is the derived dedup key, persisted for the unique
	// index but never exposed to callers.
	identityKey string

	// CreatedAt is when the device was registered.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the device was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the caller-supplied fields for one device row.
//
// ID is optional: bulk upsert uses it to target an existing record,
// everywhere else a fresh identifier is assigned when it is blank.
type Input struct {
	ID            string `json:"id"`
	Zone          string `json:"zone"`
	Address       string `json:"address"`
	Category      string `json:"category"`
	CategoryOther string `json:"category_other"`
	Description   string `json:"description"`
	Notes         string `json:"notes"`
}
