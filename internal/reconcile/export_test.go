package reconcile

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	results := []Result{
		{
			ID:                 uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
			Category:           RoomMismatch,
			ControllerName:     "Kitchen Lamp",
			ControllerLocation: "Kitchen",
			AccessoryName:      "kitchenlamp",
			AccessoryRoom:      "Den",
			Detail:             `Device "Kitchen Lamp" is in "Kitchen", accessory in "Den"`,
			CreatedAt:          created,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, results))

	// Round-trip through a CSV reader: every exported field must survive.
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"Room mismatch",
		"Kitchen Lamp",
		"Kitchen",
		"kitchenlamp",
		"Den",
		`Device "Kitchen Lamp" is in "Kitchen", accessory in "Den"`,
		"2026-03-14T09:26:53Z",
	}, rows[1])
}

func TestWriteCSVEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header row only")
}
