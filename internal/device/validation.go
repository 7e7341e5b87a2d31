package device

import (
	"strings"

	"github.com/inspectra/inspectra-core/internal/panel"
)

// validateInput checks one device payload against the registry contract.
// All failures for the row are collected into a single ValidationError
// so the caller can fix everything in one pass. Returns nil when valid.
func validateInput(mode panel.AddressingMode, input Input) *ValidationError {
	var messages []string

	if strings.TrimSpace(input.Zone) == "" {
		messages = append(messages, "zone is required")
	}

	category := Category(strings.TrimSpace(input.Category))
	switch {
	case category == "":
		messages = append(messages, "category is required")
	case !category.Valid():
		messages = append(messages, "category is not recognised: "+input.Category)
	case category == CategoryOther && strings.TrimSpace(input.CategoryOther) == "":
		messages = append(messages, "categoryOther is required when category is Other")
	}

	if mode == panel.AddressingModeAddress && strings.TrimSpace(input.Address) == "" {
		messages = append(messages, "address is required for devices in ADDRESS mode")
	}

	if len(messages) > 0 {
		return newValidationError(messages...)
	}
	return nil
}

// applyInput copies a validated input onto a device, normalising
// surrounding whitespace on identifying fields and forcing the
// category qualifier empty unless the category is Other.
func applyInput(d *Device, input Input) {
	d.Zone = strings.TrimSpace(input.Zone)
	d.Address = strings.TrimSpace(input.Address)
	d.Category = Category(strings.TrimSpace(input.Category))
	d.Description = strings.TrimSpace(input.Description)
	d.Notes = input.Notes

	if d.Category == CategoryOther {
		d.CategoryOther = strings.TrimSpace(input.CategoryOther)
	} else {
		d.CategoryOther = ""
	}
}
