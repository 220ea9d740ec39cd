package exporter

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"drillcli/pkg/contracts/domain"
)

// formatFloat renders f with precision decimals, or the shortest exact
// representation when precision is negative
func formatFloat(f float64, precision int) string {
	if precision < 0 {
		precision = -1
	}
	return strconv.FormatFloat(f, 'f', precision, 64)
}

// roundTo rounds f to precision decimals; negative precision leaves f as is
func roundTo(f float64, precision int) float64 {
	if precision < 0 {
		return f
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(f*scale) / scale
}

func roundVec(v r3.Vec, precision int) r3.Vec {
	return r3.Vec{X: roundTo(v.X, precision), Y: roundTo(v.Y, precision), Z: roundTo(v.Z, precision)}
}

// coordinates returns x, y, z of a row, or nil when it has no position
func coordinates(row domain.IntervalRecord) []*float64 {
	if !row.HasPosition() {
		return []*float64{nil, nil, nil}
	}
	x, y, z := row.Position.X, row.Position.Y, row.Position.Z
	return []*float64{&x, &y, &z}
}

// record lays out one result row as text: input columns then x, y, z.
// Missing coordinates are empty cells.
func record(table *domain.ResultTable, row domain.IntervalRecord, precision int) []string {
	values := table.Values(row, func(d float64) string { return formatFloat(d, -1) })
	for _, c := range coordinates(row) {
		if c == nil {
			values = append(values, "")
			continue
		}
		values = append(values, formatFloat(*c, precision))
	}
	return values
}

// cellValues lays out one result row for typed sinks. Depths and
// coordinates are float64, missing coordinates nil, attributes strings.
func cellValues(table *domain.ResultTable, row domain.IntervalRecord, precision int) []interface{} {
	values := make([]interface{}, 0, len(table.Columns)+3)
	attr := 0
	for _, col := range table.Columns {
		switch col {
		case table.HoleIDColumn:
			values = append(values, row.HoleID)
		case table.FromColumn:
			values = append(values, row.From)
		case table.ToColumn:
			values = append(values, row.To)
		default:
			if attr < len(row.Attributes) {
				values = append(values, row.Attributes[attr])
			} else {
				values = append(values, "")
			}
			attr++
		}
	}
	for _, c := range coordinates(row) {
		if c == nil {
			values = append(values, nil)
			continue
		}
		values = append(values, roundTo(*c, precision))
	}
	return values
}

var diagnosticHeaders = []string{"hole_id", "severity", "stage", "message"}

func diagnosticRecord(d domain.Diagnostic) []string {
	return []string{d.HoleID, string(d.Severity), string(d.Stage), d.Message}
}
