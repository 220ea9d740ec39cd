package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"drillcli/pkg/contracts/domain"
)

// PlanHeaders is the column layout of EncodePlan
var PlanHeaders = []string{"hole_id", "start_x", "start_y", "start_z", "end_x", "end_y", "end_z"}

// EncodePlan writes planned traces to out as CSV, one line per hole
func EncodePlan(out io.Writer, traces []domain.PlannedTrace, precision int) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(PlanHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, t := range traces {
		rec := []string{
			t.HoleID,
			formatFloat(roundTo(t.Start.X, precision), precision),
			formatFloat(roundTo(t.Start.Y, precision), precision),
			formatFloat(roundTo(t.Start.Z, precision), precision),
			formatFloat(roundTo(t.End.X, precision), precision),
			formatFloat(roundTo(t.End.Y, precision), precision),
			formatFloat(roundTo(t.End.Z, precision), precision),
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
