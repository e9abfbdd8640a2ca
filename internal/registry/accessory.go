package registry

import (
	"fmt"

	"github.com/google/uuid"
)

// Accessory is a read-only snapshot of one accessory record from the
// smart-home registry. The audit never mutates these; a fresh snapshot is
// fetched per reconciliation run.
type Accessory struct {
	// ID is the registry's globally unique accessory identifier.
	ID uuid.UUID `yaml:"id"`

	// Name is the user-visible accessory name.
	Name string `yaml:"name"`

	// Room is the room the accessory is assigned to, empty if unassigned.
	Room string `yaml:"room,omitempty"`

	// Home groups accessories when the registry spans multiple homes.
	Home string `yaml:"home,omitempty"`

	// Reachable reports whether the registry last saw the accessory online.
	Reachable bool `yaml:"reachable"`

	// IsLight reports whether the accessory exposes a light service.
	// Non-light accessories are excluded from controller-side comparison,
	// since the controller only tracks lighting.
	IsLight bool `yaml:"is_light"`

	// SupportsBrightness reports whether the light service is dimmable.
	SupportsBrightness bool `yaml:"supports_brightness"`

	// Brightness is the last known brightness (0-100), nil when the
	// accessory does not support brightness or the value is unknown.
	Brightness *int `yaml:"brightness,omitempty"`
}

// String returns a human-readable accessory summary.
func (a Accessory) String() string {
	if a.Room != "" {
		return fmt.Sprintf("%q (%s)", a.Name, a.Room)
	}
	return fmt.Sprintf("%q", a.Name)
}

// Lights returns the subset of accessories exposing a light service.
func Lights(accessories []Accessory) []Accessory {
	var out []Accessory
	for _, a := range accessories {
		if a.IsLight {
			out = append(out, a)
		}
	}
	return out
}
