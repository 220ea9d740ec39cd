package desurvey

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	apperrors "drillcli/internal/errors"
	"drillcli/pkg/contracts/domain"
)

// Table names used in schema errors and diagnostics
const (
	TableCollar    = "collar"
	TableSurvey    = "survey"
	TableIntervals = "intervals"
)

// Tables holds the typed inputs of one run.
// CollarIDs and SurveyIDs record every hole id seen in those tables,
// including ids whose rows were dropped for blank numeric cells.
type Tables struct {
	Collars   map[string]domain.CollarRecord
	CollarIDs map[string]bool
	Surveys   map[string][]domain.SurveyRecord
	SurveyIDs map[string]bool

	// Intervals is sorted by (hole id, to), stable on input order
	Intervals []domain.IntervalRecord

	Columns          []string
	HoleIDColumn     string
	FromColumn       string
	ToColumn         string
	AttributeColumns []string
}

// IntervalHoles returns the distinct interval hole ids in table order
func (t *Tables) IntervalHoles() []string {
	var ids []string
	for i, row := range t.Intervals {
		if i == 0 || row.HoleID != t.Intervals[i-1].HoleID {
			ids = append(ids, row.HoleID)
		}
	}
	return ids
}

// Normalize validates the mapped columns, coerces cells to numbers and sorts
// the interval table. Fatal input problems come back as *errors.SchemaError;
// recoverable ones (blank collar or survey cells, duplicate collars) are
// returned as diagnostics.
func Normalize(req domain.DesurveyRequest) (*Tables, []domain.Diagnostic, error) {
	m := req.Mapping
	var diags []domain.Diagnostic

	collars, collarIDs, d, err := normalizeCollars(req.Collar, m)
	if err != nil {
		return nil, nil, err
	}
	diags = append(diags, d...)

	surveys, surveyIDs, d, err := normalizeSurveys(req.Survey, m)
	if err != nil {
		return nil, nil, err
	}
	diags = append(diags, d...)

	tables, d, err := normalizeIntervals(req.Intervals, m)
	if err != nil {
		return nil, nil, err
	}
	diags = append(diags, d...)

	tables.Collars = collars
	tables.CollarIDs = collarIDs
	tables.Surveys = surveys
	tables.SurveyIDs = surveyIDs

	return tables, diags, nil
}

// columnIndexes resolves every named column or fails on the first missing one
func columnIndexes(t domain.RawTable, table string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = t.ColumnIndex(name)
		if idx[i] < 0 {
			return nil, apperrors.NewMissingColumnError(table, name)
		}
	}
	return idx, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber returns (value, blank, error). NaN text counts as blank.
func parseNumber(s string) (float64, bool, error) {
	if s == "" {
		return 0, true, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) {
		return 0, true, nil
	}
	if math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("infinite value")
	}
	return v, false, nil
}

func warn(holeID, format string, args ...interface{}) domain.Diagnostic {
	return domain.Diagnostic{
		HoleID:   holeID,
		Severity: domain.SeverityWarning,
		Stage:    domain.StageNormalize,
		Message:  fmt.Sprintf(format, args...),
	}
}

// collarStartField is the position of the optional start depth column in the collar names list
const collarStartField = 5

func normalizeCollars(t domain.RawTable, m domain.ColumnMapping) (map[string]domain.CollarRecord, map[string]bool, []domain.Diagnostic, error) {
	names := []string{m.CollarHoleIDCol, m.CollarEastingCol, m.CollarNorthingCol, m.CollarElevationCol, m.CollarFinalDepthCol}
	if m.HasStartDepth() {
		names = append(names, m.CollarStartDepthCol)
	}
	idx, err := columnIndexes(t, TableCollar, names...)
	if err != nil {
		return nil, nil, nil, err
	}

	collars := make(map[string]domain.CollarRecord)
	ids := make(map[string]bool)
	var diags []domain.Diagnostic

	for r, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		holeID := cell(row, idx[0])
		if holeID == "" {
			diags = append(diags, warn("", "collar row %d has no hole id; dropped", r+1))
			continue
		}
		ids[holeID] = true

		values := make([]float64, len(names))
		dropped := false
		for i := 1; i < len(names); i++ {
			raw := cell(row, idx[i])
			v, blank, err := parseNumber(raw)
			if err != nil {
				return nil, nil, nil, apperrors.NewInvalidValueError(TableCollar, names[i], r+1, raw, "not a number")
			}
			// A blank start depth means the hole starts at surface
			if blank && i != collarStartField {
				diags = append(diags, warn(holeID, "collar row %d: blank %q; row dropped", r+1, names[i]))
				dropped = true
				break
			}
			values[i] = v
		}
		if dropped {
			continue
		}

		if _, dup := collars[holeID]; dup {
			diags = append(diags, warn(holeID, "duplicate collar row %d ignored; first occurrence kept", r+1))
			continue
		}

		collars[holeID] = domain.CollarRecord{
			HoleID:     holeID,
			Easting:    values[1],
			Northing:   values[2],
			Elevation:  values[3],
			FinalDepth: values[4],
			StartDepth: valueAt(values, collarStartField),
		}
	}

	return collars, ids, diags, nil
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func normalizeSurveys(t domain.RawTable, m domain.ColumnMapping) (map[string][]domain.SurveyRecord, map[string]bool, []domain.Diagnostic, error) {
	names := []string{m.SurveyHoleIDCol, m.SurveyDepthCol, m.AzimuthCol, m.DipCol}
	idx, err := columnIndexes(t, TableSurvey, names...)
	if err != nil {
		return nil, nil, nil, err
	}

	surveys := make(map[string][]domain.SurveyRecord)
	ids := make(map[string]bool)
	var diags []domain.Diagnostic

	for r, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		holeID := cell(row, idx[0])
		if holeID == "" {
			diags = append(diags, warn("", "survey row %d has no hole id; dropped", r+1))
			continue
		}
		ids[holeID] = true

		var values [4]float64
		dropped := false
		for i := 1; i < len(names); i++ {
			raw := cell(row, idx[i])
			v, blank, err := parseNumber(raw)
			if err != nil {
				return nil, nil, nil, apperrors.NewInvalidValueError(TableSurvey, names[i], r+1, raw, "not a number")
			}
			if blank {
				diags = append(diags, warn(holeID, "survey row %d: blank %q; station dropped", r+1, names[i]))
				dropped = true
				break
			}
			values[i] = v
		}
		if dropped {
			continue
		}

		surveys[holeID] = append(surveys[holeID], domain.SurveyRecord{
			HoleID:  holeID,
			Depth:   values[1],
			Azimuth: values[2],
			Dip:     values[3],
		})
	}

	return surveys, ids, diags, nil
}

// isCoordinateColumn reports columns the engine writes itself
func isCoordinateColumn(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x", "y", "z":
		return true
	}
	return false
}

func normalizeIntervals(t domain.RawTable, m domain.ColumnMapping) (*Tables, []domain.Diagnostic, error) {
	idx, err := columnIndexes(t, TableIntervals, m.HoleIDCol, m.FromCol, m.ToCol)
	if err != nil {
		return nil, nil, err
	}

	tables := &Tables{
		HoleIDColumn: m.HoleIDCol,
		FromColumn:   m.FromCol,
		ToColumn:     m.ToCol,
	}

	seen := make(map[string]bool, len(t.Headers))
	var attrIdx []int
	for i, h := range t.Headers {
		if isCoordinateColumn(h) {
			continue
		}
		// exporters lay rows out by column name
		if h != "" && seen[h] {
			return nil, nil, &apperrors.SchemaError{Table: TableIntervals, Column: h, Reason: "duplicate column"}
		}
		seen[h] = true
		tables.Columns = append(tables.Columns, h)
		if i == idx[0] || i == idx[1] || i == idx[2] {
			continue
		}
		tables.AttributeColumns = append(tables.AttributeColumns, h)
		attrIdx = append(attrIdx, i)
	}

	var diags []domain.Diagnostic
	rows := make([]domain.IntervalRecord, 0, len(t.Rows))

	for r, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		holeID := cell(row, idx[0])
		if holeID == "" {
			return nil, nil, apperrors.NewInvalidValueError(TableIntervals, m.HoleIDCol, r+1, "", "blank hole id")
		}

		var depths [2]float64
		for i, col := range []string{m.FromCol, m.ToCol} {
			raw := cell(row, idx[i+1])
			v, blank, err := parseNumber(raw)
			if blank {
				return nil, nil, apperrors.NewInvalidValueError(TableIntervals, col, r+1, raw, "blank depth")
			}
			if err != nil {
				return nil, nil, apperrors.NewInvalidValueError(TableIntervals, col, r+1, raw, "not a number")
			}
			depths[i] = v
		}
		if depths[0] > depths[1] {
			diags = append(diags, warn(holeID, "interval row %d: from %g is deeper than to %g", r+1, depths[0], depths[1]))
		}

		attrs := make([]string, len(attrIdx))
		for i, ci := range attrIdx {
			if ci < len(row) {
				attrs[i] = row[ci]
			}
		}

		rows = append(rows, domain.IntervalRecord{
			HoleID:     holeID,
			From:       depths[0],
			To:         depths[1],
			Attributes: attrs,
			Seq:        r,
		})
	}

	sortIntervals(rows)
	tables.Intervals = rows

	return tables, diags, nil
}

// sortIntervals orders rows by (hole id, to), keeping input order on ties
func sortIntervals(rows []domain.IntervalRecord) {
	slices.SortStableFunc(rows, func(a, b domain.IntervalRecord) int {
		if c := strings.Compare(a.HoleID, b.HoleID); c != 0 {
			return c
		}
		switch {
		case a.To < b.To:
			return -1
		case a.To > b.To:
			return 1
		}
		return 0
	})
}
