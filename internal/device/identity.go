package device

import (
	"strings"

	"github.com/inspectra/inspectra-core/internal/panel"
)

// IdentityKey computes the canonical dedup key for a device under the
// given addressing mode.
//
// Normalisation is whitespace-trim plus case-fold only; stored field
// values retain their original casing. Pure function, no side effects.
//
//   - ADDRESS mode: key is the normalised address. Fails if the
//     normalised address is empty.
//   - ZONE mode: key is normalised zone, "|", normalised description.
//     An absent description normalises to the empty string, so two
//     devices in one zone with no descriptions share a key. Fails if
//     the normalised zone is empty.
func IdentityKey(mode panel.AddressingMode, input Input) (string, error) {
	switch mode {
	case panel.AddressingModeAddress:
		address := normalise(input.Address)
		if address == "" {
			return "", newValidationError("address is required for devices in ADDRESS mode")
		}
		return address, nil

	case panel.AddressingModeZone:
		zone := normalise(input.Zone)
		if zone == "" {
			return "", newValidationError("zone is required")
		}
		return zone + "|" + normalise(input.Description), nil

	default:
		return "", newValidationError("unknown addressing mode: " + string(mode))
	}
}

// normalise trims surrounding whitespace and case-folds for comparison.
func normalise(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
