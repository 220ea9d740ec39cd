package domain

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// CollarRecord is the surface origin of a single drill hole
type CollarRecord struct {
	HoleID     string  `json:"hole_id" validate:"required"`
	Easting    float64 `json:"easting"`
	Northing   float64 `json:"northing"`
	Elevation  float64 `json:"elevation"`
	StartDepth float64 `json:"start_depth"` // 0 when the mapping has no start column
	FinalDepth float64 `json:"final_depth"`
}

// Position returns the collar as a vector
func (c CollarRecord) Position() r3.Vec {
	return r3.Vec{X: c.Easting, Y: c.Northing, Z: c.Elevation}
}

// SurveyRecord is one orientation station down a hole.
// Angles are degrees; positive dip points downward.
type SurveyRecord struct {
	HoleID  string  `json:"hole_id" validate:"required"`
	Depth   float64 `json:"depth"`
	Azimuth float64 `json:"azimuth"`
	Dip     float64 `json:"dip"`
}

// IntervalRecord is a row of the working interval table.
// Attributes is aligned with ResultTable.AttributeColumns and is nil on
// synthetic rows. Position stays nil until the integrator reaches the row.
type IntervalRecord struct {
	HoleID     string   `json:"hole_id"`
	From       float64  `json:"from"`
	To         float64  `json:"to"`
	Attributes []string `json:"attributes,omitempty"`
	Synthetic  bool     `json:"synthetic"`
	Anchor     bool     `json:"anchor,omitempty"`
	Seq        int      `json:"-"`
	Position   *r3.Vec  `json:"-"`
}

// HasPosition reports whether the row has been desurveyed
func (r IntervalRecord) HasPosition() bool {
	return r.Position != nil
}

// ResultTable is the interval table handed to exporters and geometry builders.
// Columns keeps the input header order (minus any x, y, z columns).
type ResultTable struct {
	Columns          []string         `json:"columns"`
	HoleIDColumn     string           `json:"hole_id_column"`
	FromColumn       string           `json:"from_column"`
	ToColumn         string           `json:"to_column"`
	AttributeColumns []string         `json:"attribute_columns"`
	Rows             []IntervalRecord `json:"rows"`
}

// Headers returns the input column order followed by x, y, z
func (t *ResultTable) Headers() []string {
	headers := make([]string, 0, len(t.Columns)+3)
	headers = append(headers, t.Columns...)
	return append(headers, "x", "y", "z")
}

// Values lays a row out in Columns order. Depths are rendered with
// formatDepth; attributes of synthetic rows come back empty.
func (t *ResultTable) Values(row IntervalRecord, formatDepth func(float64) string) []string {
	values := make([]string, len(t.Columns))
	attr := 0
	for i, col := range t.Columns {
		switch col {
		case t.HoleIDColumn:
			values[i] = row.HoleID
		case t.FromColumn:
			values[i] = formatDepth(row.From)
		case t.ToColumn:
			values[i] = formatDepth(row.To)
		default:
			if attr < len(row.Attributes) {
				values[i] = row.Attributes[attr]
			}
			attr++
		}
	}
	return values
}

// PositionedCount returns the number of rows carrying coordinates
func (t *ResultTable) PositionedCount() int {
	n := 0
	for _, row := range t.Rows {
		if row.HasPosition() {
			n++
		}
	}
	return n
}

// HoleIDs returns hole ids in table order without duplicates
func (t *ResultTable) HoleIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, row := range t.Rows {
		if !seen[row.HoleID] {
			seen[row.HoleID] = true
			ids = append(ids, row.HoleID)
		}
	}
	return ids
}

// TraceSegment joins two consecutive positioned rows of a hole
type TraceSegment struct {
	HoleID     string   `json:"hole_id"`
	FromDepth  float64  `json:"from_depth"`
	ToDepth    float64  `json:"to_depth"`
	Start      r3.Vec   `json:"start"`
	End        r3.Vec   `json:"end"`
	Attributes []string `json:"attributes,omitempty"`
}

// HoleSummary describes the overall straight-line geometry of a desurveyed hole
type HoleSummary struct {
	HoleID     string  `json:"hole_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Elevation  float64 `json:"elevation"`
	Azimuth    float64 `json:"azimuth"`
	Dip        float64 `json:"dip"`
	TotalDepth float64 `json:"total_depth"`
	Bottom     r3.Vec  `json:"bottom"`
}

// PlannedHole is a proposed straight hole
type PlannedHole struct {
	HoleID    string  `json:"hole_id" validate:"required"`
	Easting   float64 `json:"easting"`
	Northing  float64 `json:"northing"`
	Elevation float64 `json:"elevation"`
	Azimuth   float64 `json:"azimuth" validate:"gte=0,lt=360"`
	Dip       float64 `json:"dip" validate:"gte=-90,lte=90"`
	Depth     float64 `json:"depth" validate:"gt=0"`
}

// PlannedTrace is the projected end point of a planned hole
type PlannedTrace struct {
	HoleID string `json:"hole_id"`
	Start  r3.Vec `json:"start"`
	End    r3.Vec `json:"end"`
}
