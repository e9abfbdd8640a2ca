package trim

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvHeader is the column set for exported brightness test results.
var csvHeader = []string{
	"integration_id",
	"device_name",
	"location",
	"commanded_level",
	"observed_level",
	"status",
	"notes",
	"created_at",
}

// WriteCSV writes results as a delimited-text table: one header row, one
// row per result, fields quoted as needed.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Device.IntegrationID),
			r.Device.Name,
			r.Device.Location,
			strconv.FormatFloat(r.CommandedLevel, 'f', -1, 64),
			strconv.FormatFloat(r.ObservedLevel, 'f', -1, 64),
			string(r.Status),
			r.Notes,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
