package planner

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"drillcli/internal/desurvey"
	apperrors "drillcli/internal/errors"
	"drillcli/internal/validation"
	"drillcli/pkg/contracts/domain"
)

// TablePlanned names the planned-holes table in schema errors
const TablePlanned = "planned"

// Columns maps a planned-holes table onto PlannedHole fields
type Columns struct {
	HoleID    string `json:"hole_id_col" validate:"required"`
	Easting   string `json:"easting_col" validate:"required"`
	Northing  string `json:"northing_col" validate:"required"`
	Elevation string `json:"elevation_col" validate:"required"`
	Azimuth   string `json:"azimuth_col" validate:"required"`
	Dip       string `json:"dip_col" validate:"required"`
	Depth     string `json:"depth_col" validate:"required"`
}

// DefaultColumns returns the conventional planned-hole column names
func DefaultColumns() Columns {
	return Columns{
		HoleID:    "hole_id",
		Easting:   "easting",
		Northing:  "northing",
		Elevation: "elevation",
		Azimuth:   "azimuth",
		Dip:       "dip",
		Depth:     "depth",
	}
}

// Project returns the end point of a straight hole of the given depth
// leaving start along azimuth/dip.
func Project(start r3.Vec, azimuth, dip, depth float64, sign domain.DipSign) r3.Vec {
	return r3.Add(start, r3.Scale(depth, desurvey.Direction(azimuth, dip, sign)))
}

// Orientation is the inverse of Project: azimuth in [0, 360), dip and
// length of the segment start→end.
func Orientation(start, end r3.Vec, sign domain.DipSign) (azimuth, dip, length float64) {
	return desurvey.Orientation(start, end, sign)
}

// Planner turns planned-hole tables into projected traces
type Planner struct {
	logger *slog.Logger
	sign   domain.DipSign
}

// New creates a planner using sign for the vertical component
func New(logger *slog.Logger, sign domain.DipSign) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	if sign == "" {
		sign = domain.DipSignDown
	}
	return &Planner{
		logger: logger.With(slog.String("component", "planner")),
		sign:   sign,
	}
}

// ParseHoles reads planned holes from table. The first row of a hole id
// wins; later rows with the same id are skipped with a warning.
func (p *Planner) ParseHoles(table domain.RawTable, cols Columns) ([]domain.PlannedHole, error) {
	if err := validation.Struct(cols); err != nil {
		return nil, err
	}

	names := []string{cols.HoleID, cols.Easting, cols.Northing, cols.Elevation, cols.Azimuth, cols.Dip, cols.Depth}
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = table.ColumnIndex(name)
		if idx[i] < 0 {
			return nil, apperrors.NewMissingColumnError(TablePlanned, name)
		}
	}

	seen := make(map[string]bool)
	var holes []domain.PlannedHole

	for r, row := range table.Rows {
		get := func(i int) string {
			if idx[i] >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx[i]])
		}

		holeID := get(0)
		if holeID == "" {
			continue
		}
		if seen[holeID] {
			p.logger.Warn("duplicate planned hole skipped",
				slog.String("hole_id", holeID),
				slog.Int("row", r+1))
			continue
		}
		seen[holeID] = true

		var values [7]float64
		for i := 1; i < len(names); i++ {
			raw := get(i)
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, apperrors.NewInvalidValueError(TablePlanned, names[i], r+1, raw, "not a number")
			}
			values[i] = v
		}

		holes = append(holes, domain.PlannedHole{
			HoleID:    holeID,
			Easting:   values[1],
			Northing:  values[2],
			Elevation: values[3],
			Azimuth:   values[4],
			Dip:       values[5],
			Depth:     values[6],
		})
	}

	return holes, nil
}

// Plan projects every hole. Holes failing validation abort with the
// offending hole id in the error.
func (p *Planner) Plan(holes []domain.PlannedHole) ([]domain.PlannedTrace, error) {
	traces := make([]domain.PlannedTrace, 0, len(holes))
	for _, h := range holes {
		if err := validation.Struct(h); err != nil {
			return nil, fmt.Errorf("planned hole %s: %w", h.HoleID, err)
		}
		start := r3.Vec{X: h.Easting, Y: h.Northing, Z: h.Elevation}
		traces = append(traces, domain.PlannedTrace{
			HoleID: h.HoleID,
			Start:  start,
			End:    Project(start, h.Azimuth, h.Dip, h.Depth, p.sign),
		})
	}

	p.logger.Info("planned holes projected", slog.Int("holes", len(traces)))
	return traces, nil
}

// PlanHoles parses table and projects each planned hole
func (p *Planner) PlanHoles(table domain.RawTable, cols Columns) ([]domain.PlannedTrace, error) {
	holes, err := p.ParseHoles(table, cols)
	if err != nil {
		return nil, err
	}
	return p.Plan(holes)
}
