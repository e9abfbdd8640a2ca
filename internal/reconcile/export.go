package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// csvHeader is the column set for exported reconciliation results. The
// fields round-trip losslessly: every Result field that carries data has a
// column.
var csvHeader = []string{
	"id",
	"category",
	"controller_name",
	"controller_location",
	"accessory_name",
	"accessory_room",
	"detail",
	"created_at",
}

// WriteCSV writes results as a delimited-text table: one header row, one row
// per result, fields quoted as needed. Suitable for copy/paste or export.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.ID.String(),
			r.Category.String(),
			r.ControllerName,
			r.ControllerLocation,
			r.AccessoryName,
			r.AccessoryRoom,
			r.Detail,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
