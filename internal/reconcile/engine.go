package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"ra2audit/internal/ra2"
	"ra2audit/internal/registry"
)

// Fuzzy-match window for the name-mismatch pass. Scores strictly inside
// (0.6, 1.0) are reported: exact matches are not mismatches, and anything
// at or below 0.6 is treated as coincidence.
const (
	nameMatchFloor   = 0.6
	nameMatchCeiling = 1.0
)

// Category classifies one reconciliation finding.
type Category int

const (
	// MissingFromRegistry: a controller device with no name match in the
	// accessory registry.
	MissingFromRegistry Category = iota
	// MissingFromController: a light accessory with no name match in the
	// controller inventory.
	MissingFromController
	// NameMismatch: a near-miss name pair, likely the same device spelled
	// differently on each side.
	NameMismatch
	// RoomMismatch: a matched device assigned to different rooms on each
	// side.
	RoomMismatch
	// SceneMismatch: a scene present on one side only. Reserved for scene
	// comparison; the current passes do not produce it.
	SceneMismatch
)

// String returns the display label for the category. Results are ordered by
// this text, so labels are also the sort key.
func (c Category) String() string {
	switch c {
	case MissingFromRegistry:
		return "Missing from accessory registry"
	case MissingFromController:
		return "Missing from controller"
	case NameMismatch:
		return "Name mismatch"
	case RoomMismatch:
		return "Room mismatch"
	case SceneMismatch:
		return "Scene mismatch"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Result is one reconciliation finding. Immutable once created; the full
// result set is regenerated on every run.
type Result struct {
	// ID uniquely identifies the finding for export and display.
	ID uuid.UUID

	Category Category

	// ControllerName and ControllerLocation come from the controller-side
	// device, when one is involved.
	ControllerName     string
	ControllerLocation string

	// AccessoryName and AccessoryRoom come from the registry-side
	// accessory, when one is involved.
	AccessoryName string
	AccessoryRoom string

	// Detail is a human-readable explanation of the finding.
	Detail string

	CreatedAt time.Time
}

// Run cross-references the controller inventory against the accessory
// snapshot and returns all findings, ordered by category label. The four
// passes are independent; a device may appear in more than one category.
func Run(devices []ra2.Device, accessories []registry.Accessory) []Result {
	var results []Result
	now := time.Now()

	results = append(results, missingFromRegistry(devices, accessories, now)...)
	results = append(results, missingFromController(devices, accessories, now)...)
	results = append(results, nameMismatches(devices, accessories, now)...)
	results = append(results, roomMismatches(devices, accessories, now)...)

	// Stable order for display and export. Lexicographic on the category
	// label; not semantically meaningful.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Category.String() < results[j].Category.String()
	})

	return results
}

// missingFromRegistry reports every controller device whose normalized name
// has no exact match among the accessories.
func missingFromRegistry(devices []ra2.Device, accessories []registry.Accessory, now time.Time) []Result {
	known := make(map[string]bool, len(accessories))
	for _, a := range accessories {
		known[NormalizeName(a.Name)] = true
	}

	var results []Result
	for _, d := range devices {
		if known[NormalizeName(d.Name)] {
			continue
		}
		results = append(results, Result{
			ID:                 uuid.New(),
			Category:           MissingFromRegistry,
			ControllerName:     d.Name,
			ControllerLocation: d.Location,
			Detail: fmt.Sprintf("Controller device %q (id %d) has no matching accessory in the registry",
				d.Name, d.IntegrationID),
			CreatedAt: now,
		})
	}
	return results
}

// missingFromController reports every light-service accessory whose
// normalized name has no exact match among the controller devices.
// Non-light accessories are skipped: the controller only tracks lighting,
// so their absence is expected.
func missingFromController(devices []ra2.Device, accessories []registry.Accessory, now time.Time) []Result {
	known := make(map[string]bool, len(devices))
	for _, d := range devices {
		known[NormalizeName(d.Name)] = true
	}

	var results []Result
	for _, a := range accessories {
		if !a.IsLight {
			continue
		}
		if known[NormalizeName(a.Name)] {
			continue
		}
		results = append(results, Result{
			ID:            uuid.New(),
			Category:      MissingFromController,
			AccessoryName: a.Name,
			AccessoryRoom: a.Room,
			Detail: fmt.Sprintf("Light accessory %q has no matching device in the controller inventory",
				a.Name),
			CreatedAt: now,
		})
	}
	return results
}

// nameMismatches reports every (device, accessory) pair whose similarity
// score lies strictly between the floor and 1.0 - close enough to probably
// be the same device, but spelled differently. A single device may be
// reported against several fuzzy matches.
func nameMismatches(devices []ra2.Device, accessories []registry.Accessory, now time.Time) []Result {
	var results []Result
	for _, d := range devices {
		for _, a := range accessories {
			score := Similarity(d.Name, a.Name)
			if score <= nameMatchFloor || score >= nameMatchCeiling {
				continue
			}
			results = append(results, Result{
				ID:                 uuid.New(),
				Category:           NameMismatch,
				ControllerName:     d.Name,
				ControllerLocation: d.Location,
				AccessoryName:      a.Name,
				AccessoryRoom:      a.Room,
				Detail: fmt.Sprintf("Controller device %q and accessory %q are %.0f%% similar but not identical",
					d.Name, a.Name, score*100),
				CreatedAt: now,
			})
		}
	}
	return results
}

// roomMismatches reports devices whose exact name match in the registry is
// assigned to a different room than the controller's programmed location.
// Room comparison uses the same normalization as names, so case, spaces,
// and hyphens never count as differences.
func roomMismatches(devices []ra2.Device, accessories []registry.Accessory, now time.Time) []Result {
	byName := make(map[string]registry.Accessory, len(accessories))
	for _, a := range accessories {
		byName[NormalizeName(a.Name)] = a
	}

	var results []Result
	for _, d := range devices {
		if d.Location == "" {
			continue
		}
		a, ok := byName[NormalizeName(d.Name)]
		if !ok || a.Room == "" {
			continue
		}
		if NormalizeName(a.Room) == NormalizeName(d.Location) {
			continue
		}
		results = append(results, Result{
			ID:                 uuid.New(),
			Category:           RoomMismatch,
			ControllerName:     d.Name,
			ControllerLocation: d.Location,
			AccessoryName:      a.Name,
			AccessoryRoom:      a.Room,
			Detail: fmt.Sprintf("Device %q is in %q on the controller but accessory %q is in room %q",
				d.Name, d.Location, a.Name, a.Room),
			CreatedAt: now,
		})
	}
	return results
}
