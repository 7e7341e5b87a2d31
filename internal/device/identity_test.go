package device

import (
	"errors"
	"testing"

	"github.com/inspectra/inspectra-core/internal/panel"
)

func TestIdentityKey_AddressMode(t *testing.T) {
	t.Run("normalises case and whitespace", func(t *testing.T) {
		a, err := IdentityKey(panel.AddressingModeAddress, Input{Address: "L1-042"})
		if err != nil {
			t.Fatalf("IdentityKey() error = %v", err)
		}
		b, err := IdentityKey(panel.AddressingModeAddress, Input{Address: "  l1-042 "})
		if err != nil {
			t.Fatalf("IdentityKey() error = %v", err)
		}
		if a != b {
			t.Errorf("keys differ: %q vs %q", a, b)
		}
	})

	t.Run("distinct addresses yield distinct keys", func(t *testing.T) {
		a, _ := IdentityKey(panel.AddressingModeAddress, Input{Address: "L1-042"})
		b, _ := IdentityKey(panel.AddressingModeAddress, Input{Address: "L1-043"})
		if a == b {
			t.Errorf("expected distinct keys, both %q", a)
		}
	})

	t.Run("rejects empty address", func(t *testing.T) {
		_, err := IdentityKey(panel.AddressingModeAddress, Input{Address: "   "})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("IdentityKey() error = %v, want ErrValidation", err)
		}
	})

	t.Run("ignores zone and description", func(t *testing.T) {
		a, _ := IdentityKey(panel.AddressingModeAddress, Input{Address: "L1-042", Zone: "1", Description: "lobby"})
		b, _ := IdentityKey(panel.AddressingModeAddress, Input{Address: "L1-042", Zone: "2", Description: "plant room"})
		if a != b {
			t.Errorf("keys differ: %q vs %q", a, b)
		}
	})
}

func TestIdentityKey_ZoneMode(t *testing.T) {
	t.Run("same zone different descriptions do not collide", func(t *testing.T) {
		a, _ := IdentityKey(panel.AddressingModeZone, Input{Zone: "1", Description: "east stairwell"})
		b, _ := IdentityKey(panel.AddressingModeZone, Input{Zone: "1", Description: "west stairwell"})
		if a == b {
			t.Errorf("expected distinct keys, both %q", a)
		}
	})

	t.Run("same zone both empty descriptions collide", func(t *testing.T) {
		a, _ := IdentityKey(panel.AddressingModeZone, Input{Zone: "1"})
		b, _ := IdentityKey(panel.AddressingModeZone, Input{Zone: " 1 ", Description: "  "})
		if a != b {
			t.Errorf("keys differ: %q vs %q", a, b)
		}
	})

	t.Run("description case folded", func(t *testing.T) {
		a, _ := IdentityKey(panel.AddressingModeZone, Input{Zone: "1", Description: "Lobby"})
		b, _ := IdentityKey(panel.AddressingModeZone, Input{Zone: "1", Description: "lobby "})
		if a != b {
			t.Errorf("keys differ: %q vs %q", a, b)
		}
	})

	t.Run("rejects empty zone", func(t *testing.T) {
		_, err := IdentityKey(panel.AddressingModeZone, Input{Description: "lobby"})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("IdentityKey() error = %v, want ErrValidation", err)
		}
	})

	t.Run("address does not participate", func(t *testing.T) {
		a, _ := IdentityKey(panel.AddressingModeZone, Input{Zone: "1", Address: "L1-042"})
		b, _ := IdentityKey(panel.AddressingModeZone, Input{Zone: "1", Address: "L1-099"})
		if a != b {
			t.Errorf("keys differ: %q vs %q", a, b)
		}
	})
}
