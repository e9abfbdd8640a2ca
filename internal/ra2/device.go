package ra2

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DeviceType identifies what kind of load or control a zone is.
type DeviceType string

const (
	TypeDimmer          DeviceType = "dimmer"
	TypeSwitch          DeviceType = "switch"
	TypeKeypad          DeviceType = "keypad"
	TypeOccupancySensor DeviceType = "occupancy_sensor"
	TypeUnknown         DeviceType = "unknown"
)

// DeviceTypeNames maps type identifiers to human-readable names for display.
var DeviceTypeNames = map[DeviceType]string{
	TypeDimmer:          "Dimmer",
	TypeSwitch:          "Switch",
	TypeKeypad:          "Keypad",
	TypeOccupancySensor: "Occupancy Sensor",
	TypeUnknown:         "Unknown",
}

// Device represents one zone or control known to the lighting controller.
// The integration ID is the controller-assigned primary key used in every
// protocol command.
type Device struct {
	// IntegrationID is the stable numeric identifier assigned by the
	// controller (e.g., 5 for "?OUTPUT,5,1").
	IntegrationID int `yaml:"integration_id"`

	// Name is the programmed device name (e.g., "Kitchen Pendants").
	Name string `yaml:"name"`

	// Type is the device kind. Unrecognized values load as TypeUnknown.
	Type DeviceType `yaml:"type"`

	// Location is the area/room the device is programmed into, if known.
	Location string `yaml:"location,omitempty"`

	// Level is the last known output level (0-100). Only meaningful for
	// level-capable types; nil when unknown or not applicable.
	Level *float64 `yaml:"level,omitempty"`
}

// LevelCapable reports whether the device type carries an output level.
// Switches report 0 or 100 but are still level-addressable on the wire.
func (d *Device) LevelCapable() bool {
	return d.Type == TypeDimmer || d.Type == TypeSwitch
}

// IsDimmable reports whether the device supports continuous level control.
func (d *Device) IsDimmable() bool {
	return d.Type == TypeDimmer
}

// SetLevel records a new known level. No-op for types without level control,
// preserving the invariant that Level is only present on level-capable types.
func (d *Device) SetLevel(level float64) {
	if !d.LevelCapable() {
		return
	}
	d.Level = &level
}

// String returns a human-readable device summary.
func (d *Device) String() string {
	name := DeviceTypeNames[d.Type]
	if name == "" {
		name = string(d.Type)
	}
	if d.Location != "" {
		return fmt.Sprintf("%s %q (id %d, %s)", name, d.Name, d.IntegrationID, d.Location)
	}
	return fmt.Sprintf("%s %q (id %d)", name, d.Name, d.IntegrationID)
}

// Inventory is the on-disk representation of the controller's device list,
// exported from the programming database.
type Inventory struct {
	Version int      `yaml:"version"`
	Devices []Device `yaml:"devices"`
}

// LoadInventory loads a device inventory from a YAML export file.
func LoadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}

	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse inventory file: %w", err)
	}

	if inv.Version != 1 {
		return nil, fmt.Errorf("unsupported inventory version: %d (expected 1)", inv.Version)
	}

	// Normalize unknown types so downstream type checks stay closed.
	for i := range inv.Devices {
		if _, ok := DeviceTypeNames[inv.Devices[i].Type]; !ok {
			inv.Devices[i].Type = TypeUnknown
		}
	}

	return &inv, nil
}

// Dimmable returns the subset of devices that support continuous level
// control, in inventory order.
func (inv *Inventory) Dimmable() []Device {
	var out []Device
	for _, d := range inv.Devices {
		if d.IsDimmable() {
			out = append(out, d)
		}
	}
	return out
}

// ByIntegrationID looks a device up by its integration ID. Presence is never
// assumed; callers check ok.
func (inv *Inventory) ByIntegrationID(id int) (*Device, bool) {
	for i := range inv.Devices {
		if inv.Devices[i].IntegrationID == id {
			return &inv.Devices[i], true
		}
	}
	return nil, false
}
