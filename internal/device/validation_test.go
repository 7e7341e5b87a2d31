package device

import (
	"strings"
	"testing"

	"github.com/inspectra/inspectra-core/internal/panel"
)

func TestValidateInput(t *testing.T) {
	valid := Input{Zone: "1", Category: "Smoke"}

	t.Run("accepts minimal zone mode input", func(t *testing.T) {
		if verr := validateInput(panel.AddressingModeZone, valid); verr != nil {
			t.Errorf("validateInput() = %v, want nil", verr)
		}
	})

	t.Run("requires zone", func(t *testing.T) {
		verr := validateInput(panel.AddressingModeZone, Input{Category: "Smoke"})
		if verr == nil {
			t.Fatal("validateInput() = nil, want error")
		}
		if !containsMessage(verr, "zone is required") {
			t.Errorf("messages = %v, want zone message", verr.Messages)
		}
	})

	t.Run("requires category", func(t *testing.T) {
		verr := validateInput(panel.AddressingModeZone, Input{Zone: "1"})
		if verr == nil || !containsMessage(verr, "category is required") {
			t.Errorf("validateInput() = %v, want category message", verr)
		}
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		verr := validateInput(panel.AddressingModeZone, Input{Zone: "1", Category: "Sprinkler"})
		if verr == nil {
			t.Fatal("validateInput() = nil, want error")
		}
	})

	t.Run("Other requires qualifier", func(t *testing.T) {
		verr := validateInput(panel.AddressingModeZone, Input{Zone: "1", Category: "Other"})
		if verr == nil || !containsMessage(verr, "categoryOther is required when category is Other") {
			t.Errorf("validateInput() = %v, want qualifier message", verr)
		}

		ok := Input{Zone: "1", Category: "Other", CategoryOther: "Door Holder"}
		if verr := validateInput(panel.AddressingModeZone, ok); verr != nil {
			t.Errorf("validateInput() = %v, want nil", verr)
		}
	})

	t.Run("address required in ADDRESS mode", func(t *testing.T) {
		verr := validateInput(panel.AddressingModeAddress, valid)
		if verr == nil || !containsMessage(verr, "address is required for devices in ADDRESS mode") {
			t.Errorf("validateInput() = %v, want address message", verr)
		}

		withAddr := Input{Zone: "1", Category: "Smoke", Address: "L1-001"}
		if verr := validateInput(panel.AddressingModeAddress, withAddr); verr != nil {
			t.Errorf("validateInput() = %v, want nil", verr)
		}
	})

	t.Run("collects multiple failures in one error", func(t *testing.T) {
		verr := validateInput(panel.AddressingModeAddress, Input{})
		if verr == nil {
			t.Fatal("validateInput() = nil, want error")
		}
		if len(verr.Messages) < 3 {
			t.Errorf("messages = %v, want zone, category and address failures", verr.Messages)
		}
	})
}

func TestApplyInput(t *testing.T) {
	t.Run("forces qualifier empty for non-Other categories", func(t *testing.T) {
		var d Device
		applyInput(&d, Input{Zone: "1", Category: "Smoke", CategoryOther: "leftover"})
		if d.CategoryOther != "" {
			t.Errorf("CategoryOther = %q, want empty", d.CategoryOther)
		}
	})

	t.Run("keeps qualifier for Other", func(t *testing.T) {
		var d Device
		applyInput(&d, Input{Zone: "1", Category: "Other", CategoryOther: " Door Holder "})
		if d.CategoryOther != "Door Holder" {
			t.Errorf("CategoryOther = %q, want trimmed qualifier", d.CategoryOther)
		}
	})

	t.Run("trims identifying fields but keeps casing", func(t *testing.T) {
		var d Device
		applyInput(&d, Input{Zone: " 1 ", Address: " L1-042 ", Category: "Smoke", Description: " East Lobby "})
		if d.Zone != "1" || d.Address != "L1-042" || d.Description != "East Lobby" {
			t.Errorf("fields not trimmed: %+v", d)
		}
	})
}

func containsMessage(verr *ValidationError, want string) bool {
	for _, m := range verr.Messages {
		if strings.Contains(m, want) {
			return true
		}
	}
	return false
}
