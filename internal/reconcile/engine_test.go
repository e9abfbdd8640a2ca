package reconcile

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ra2audit/internal/ra2"
	"ra2audit/internal/registry"
)

func device(id int, name, location string) ra2.Device {
	return ra2.Device{IntegrationID: id, Name: name, Type: ra2.TypeDimmer, Location: location}
}

func light(name, room string) registry.Accessory {
	return registry.Accessory{ID: uuid.New(), Name: name, Room: room, IsLight: true, Reachable: true}
}

func byCategory(results []Result, c Category) []Result {
	var out []Result
	for _, r := range results {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

func TestRunMissingFromRegistry(t *testing.T) {
	devices := []ra2.Device{
		device(1, "Kitchen Lamp", "Kitchen"),
		device(2, "Attic Light", "Attic"),
	}
	accessories := []registry.Accessory{
		light("kitchen-lamp", "Kitchen"), // normalizes equal, not missing
	}

	results := byCategory(Run(devices, accessories), MissingFromRegistry)
	require.Len(t, results, 1)
	assert.Equal(t, "Attic Light", results[0].ControllerName)
	assert.Contains(t, results[0].Detail, "Attic Light")
	assert.Contains(t, results[0].Detail, "id 2")
}

func TestRunMissingFromControllerSkipsNonLights(t *testing.T) {
	devices := []ra2.Device{device(1, "Kitchen Lamp", "Kitchen")}
	accessories := []registry.Accessory{
		light("Den Sconce", "Den"),
		{ID: uuid.New(), Name: "Thermostat", Room: "Hall", IsLight: false},
	}

	results := byCategory(Run(devices, accessories), MissingFromController)
	require.Len(t, results, 1, "non-light accessories must never be reported")
	assert.Equal(t, "Den Sconce", results[0].AccessoryName)
}

func TestRunNameMismatchWindow(t *testing.T) {
	// "Kitchen Lamp" vs "Kitchen Lamps": distance 1 over 13 -> ~0.92.
	devices := []ra2.Device{device(1, "Kitchen Lamp", "")}
	accessories := []registry.Accessory{light("Kitchen Lamps", "")}

	results := byCategory(Run(devices, accessories), NameMismatch)
	require.Len(t, results, 1)
	assert.Equal(t, "Kitchen Lamp", results[0].ControllerName)
	assert.Equal(t, "Kitchen Lamps", results[0].AccessoryName)
	assert.Contains(t, results[0].Detail, "similar")
}

func TestRunNameMismatchExcludesBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		deviceName string
		accName    string
	}{
		{"exact match excluded", "Kitchen Lamp", "Kitchen Lamp"},
		{"case-folded exact match excluded", "Kitchen Lamp", "kitchen lamp"},
		{"low similarity excluded", "Kitchen Lamp", "Garage Door"},
		// "abcde" vs "abc" scores exactly 1 - 2/5 = 0.6, on the boundary.
		{"score exactly 0.6 excluded", "abcde", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devices := []ra2.Device{device(1, tt.deviceName, "")}
			accessories := []registry.Accessory{light(tt.accName, "")}
			results := byCategory(Run(devices, accessories), NameMismatch)
			assert.Empty(t, results)
		})
	}
}

func TestRunNameMismatchReportsAllPairs(t *testing.T) {
	// One device fuzzily matching two accessories yields two findings.
	devices := []ra2.Device{device(1, "Hall Light", "")}
	accessories := []registry.Accessory{
		light("Hall Lights", ""),
		light("Hall Lite", ""),
	}

	results := byCategory(Run(devices, accessories), NameMismatch)
	assert.Len(t, results, 2)
}

func TestRunRoomMismatch(t *testing.T) {
	devices := []ra2.Device{device(1, "Kitchen Lamp", "Kitchen")}
	accessories := []registry.Accessory{light("kitchenlamp", "Den")}

	results := byCategory(Run(devices, accessories), RoomMismatch)
	require.Len(t, results, 1)
	assert.Equal(t, "Kitchen", results[0].ControllerLocation)
	assert.Equal(t, "Den", results[0].AccessoryRoom)
}

func TestRunRoomMismatchNormalizedRoomsAgree(t *testing.T) {
	// Case, spaces, and hyphens never count as a room difference.
	devices := []ra2.Device{device(1, "Bed Lamp", "Master Bedroom")}
	accessories := []registry.Accessory{light("bed-lamp", "master-bedroom")}

	results := byCategory(Run(devices, accessories), RoomMismatch)
	assert.Empty(t, results)
}

func TestRunRoomMismatchSkipsEmptyRooms(t *testing.T) {
	devices := []ra2.Device{
		device(1, "Bed Lamp", ""),        // no controller location
		device(2, "Desk Lamp", "Office"), // accessory has no room
	}
	accessories := []registry.Accessory{
		light("bedlamp", "Bedroom"),
		light("desklamp", ""),
	}

	results := byCategory(Run(devices, accessories), RoomMismatch)
	assert.Empty(t, results)
}

func TestRunResultsOrderedByCategoryLabel(t *testing.T) {
	devices := []ra2.Device{
		device(1, "Attic Light", "Attic"),
		device(2, "Kitchen Lamp", "Kitchen"),
	}
	accessories := []registry.Accessory{
		light("kitchenlamp", "Den"),
		light("Porch Sconce", "Porch"),
	}

	results := Run(devices, accessories)
	require.NotEmpty(t, results)

	labels := make([]string, len(results))
	for i, r := range results {
		labels[i] = r.Category.String()
	}
	assert.True(t, sort.StringsAreSorted(labels), "labels not sorted: %v", labels)
}

func TestRunEmptyInventories(t *testing.T) {
	assert.Empty(t, Run(nil, nil))
}
