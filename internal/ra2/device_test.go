package ra2

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDeviceLevelCapability(t *testing.T) {
	tests := []struct {
		typ          DeviceType
		levelCapable bool
		dimmable     bool
	}{
		{TypeDimmer, true, true},
		{TypeSwitch, true, false},
		{TypeKeypad, false, false},
		{TypeOccupancySensor, false, false},
		{TypeUnknown, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			d := Device{Type: tt.typ}
			if got := d.LevelCapable(); got != tt.levelCapable {
				t.Errorf("LevelCapable() = %v, want %v", got, tt.levelCapable)
			}
			if got := d.IsDimmable(); got != tt.dimmable {
				t.Errorf("IsDimmable() = %v, want %v", got, tt.dimmable)
			}
		})
	}
}

func TestSetLevelOnlyForLevelCapable(t *testing.T) {
	dimmer := Device{IntegrationID: 1, Type: TypeDimmer}
	dimmer.SetLevel(75)
	if dimmer.Level == nil || *dimmer.Level != 75 {
		t.Errorf("dimmer.Level = %v, want 75", dimmer.Level)
	}

	keypad := Device{IntegrationID: 2, Type: TypeKeypad}
	keypad.SetLevel(75)
	if keypad.Level != nil {
		t.Errorf("keypad.Level = %v, want nil", keypad.Level)
	}
}

func TestLoadInventory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	content := `version: 1
devices:
  - integration_id: 5
    name: Kitchen Pendants
    type: dimmer
    location: Kitchen
  - integration_id: 6
    name: Porch Light
    type: switch
  - integration_id: 21
    name: Entry Keypad
    type: keypad
  - integration_id: 30
    name: Mystery Module
    type: flux_capacitor
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory() failed: %v", err)
	}

	if len(inv.Devices) != 4 {
		t.Fatalf("loaded %d devices, want 4", len(inv.Devices))
	}

	d, ok := inv.ByIntegrationID(5)
	if !ok {
		t.Fatal("ByIntegrationID(5) not found")
	}
	if d.Name != "Kitchen Pendants" || d.Type != TypeDimmer || d.Location != "Kitchen" {
		t.Errorf("device 5 = %+v", d)
	}

	// Unrecognized types collapse to unknown.
	if d, _ := inv.ByIntegrationID(30); d.Type != TypeUnknown {
		t.Errorf("device 30 type = %q, want %q", d.Type, TypeUnknown)
	}

	dimmable := inv.Dimmable()
	if len(dimmable) != 1 || dimmable[0].IntegrationID != 5 {
		t.Errorf("Dimmable() = %v, want just device 5", dimmable)
	}

	if _, ok := inv.ByIntegrationID(999); ok {
		t.Error("ByIntegrationID(999) found a device that does not exist")
	}
}

func TestLoadInventoryRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	if err := os.WriteFile(path, []byte("version: 2\ndevices: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := LoadInventory(path); err == nil {
		t.Error("LoadInventory() accepted unsupported version")
	}
}
