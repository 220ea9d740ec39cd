package desurvey

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"drillcli/pkg/contracts/domain"
)

// BuildTraces joins consecutive positioned rows of each hole into polyline
// segments. Rows without a position are skipped, and zero-length steps
// (the anchor row, repeated depths) produce no segment.
func BuildTraces(table *domain.ResultTable) []domain.TraceSegment {
	var segments []domain.TraceSegment
	var prev *domain.IntervalRecord

	for i := range table.Rows {
		row := &table.Rows[i]
		if !row.HasPosition() {
			continue
		}
		if prev != nil && prev.HoleID == row.HoleID && row.To != prev.To {
			segments = append(segments, domain.TraceSegment{
				HoleID:     row.HoleID,
				FromDepth:  prev.To,
				ToDepth:    row.To,
				Start:      *prev.Position,
				End:        *row.Position,
				Attributes: row.Attributes,
			})
		}
		prev = row
	}

	return segments
}

// Summarize reports, per desurveyed hole, the collar position and the
// straight-line orientation and length from the shallowest to the deepest
// positioned row. sign must match the convention the table was built with.
func Summarize(table *domain.ResultTable, sign domain.DipSign) []domain.HoleSummary {
	type span struct {
		top, bottom *domain.IntervalRecord
	}
	spans := make(map[string]*span)
	var order []string

	for i := range table.Rows {
		row := &table.Rows[i]
		if !row.HasPosition() {
			continue
		}
		s, ok := spans[row.HoleID]
		if !ok {
			s = &span{top: row, bottom: row}
			spans[row.HoleID] = s
			order = append(order, row.HoleID)
			continue
		}
		if row.To < s.top.To {
			s.top = row
		}
		if row.To >= s.bottom.To {
			s.bottom = row
		}
	}

	summaries := make([]domain.HoleSummary, 0, len(order))
	for _, holeID := range order {
		s := spans[holeID]
		top, bottom := *s.top.Position, *s.bottom.Position
		azimuth, dip, length := Orientation(top, bottom, sign)
		summaries = append(summaries, domain.HoleSummary{
			HoleID:     holeID,
			X:          top.X,
			Y:          top.Y,
			Elevation:  top.Z,
			Azimuth:    azimuth,
			Dip:        dip,
			TotalDepth: length,
			Bottom:     bottom,
		})
	}
	return summaries
}

// Orientation returns the azimuth in [0, 360), dip and length of the
// straight line from start to end, both angles in degrees. Coincident
// points give zero for all three.
func Orientation(start, end r3.Vec, sign domain.DipSign) (azimuth, dip, length float64) {
	d := r3.Sub(end, start)
	length = r3.Norm(d)
	if length == 0 {
		return 0, 0, 0
	}

	azimuth = math.Atan2(d.X, d.Y) * 180 / math.Pi
	if azimuth < 0 {
		azimuth += 360
	}
	if azimuth >= 360 {
		azimuth -= 360
	}

	u := r3.Unit(d)
	dip = math.Asin(clamp(sign.Factor()*u.Z, -1, 1)) * 180 / math.Pi
	return azimuth, dip, length
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
