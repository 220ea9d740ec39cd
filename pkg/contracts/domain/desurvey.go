package domain

import (
	"time"
)

// DefaultMaxInfill bounds synthetic gaps when the caller does not
const DefaultMaxInfill = 25.0

// NoneColumn is the mapping sentinel for an absent optional column
const NoneColumn = "None"

// RawTable is an untyped table as loaded from CSV, XLSX or a request body
type RawTable struct {
	Name    string     `json:"name,omitempty"`
	Headers []string   `json:"headers" validate:"required,min=1"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of a header, or -1
func (t RawTable) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// ColumnMapping names the caller's columns for each role.
// CollarStartDepthCol may be empty or NoneColumn, meaning every hole starts at 0.
// MaxInfill must be finite and at most 100000.
type ColumnMapping struct {
	HoleIDCol           string  `json:"hole_id_col" yaml:"hole_id_col" envconfig:"HOLE_ID_COL" validate:"required"`
	FromCol             string  `json:"from_col" yaml:"from_col" envconfig:"FROM_COL" validate:"required,nefield=ToCol"`
	ToCol               string  `json:"to_col" yaml:"to_col" envconfig:"TO_COL" validate:"required"`
	SurveyHoleIDCol     string  `json:"survey_hole_id_col" yaml:"survey_hole_id_col" envconfig:"SURVEY_HOLE_ID_COL" validate:"required"`
	SurveyDepthCol      string  `json:"survey_depth_col" yaml:"survey_depth_col" envconfig:"SURVEY_DEPTH_COL" validate:"required"`
	AzimuthCol          string  `json:"azimuth_col" yaml:"azimuth_col" envconfig:"AZIMUTH_COL" validate:"required"`
	DipCol              string  `json:"dip_col" yaml:"dip_col" envconfig:"DIP_COL" validate:"required"`
	CollarHoleIDCol     string  `json:"collar_hole_id_col" yaml:"collar_hole_id_col" envconfig:"COLLAR_HOLE_ID_COL" validate:"required"`
	CollarEastingCol    string  `json:"collar_easting_col" yaml:"collar_easting_col" envconfig:"COLLAR_EASTING_COL" validate:"required"`
	CollarNorthingCol   string  `json:"collar_northing_col" yaml:"collar_northing_col" envconfig:"COLLAR_NORTHING_COL" validate:"required"`
	CollarElevationCol  string  `json:"collar_elevation_col" yaml:"collar_elevation_col" envconfig:"COLLAR_ELEVATION_COL" validate:"required"`
	CollarStartDepthCol string  `json:"collar_start_depth_col" yaml:"collar_start_depth_col" envconfig:"COLLAR_START_DEPTH_COL"`
	CollarFinalDepthCol string  `json:"collar_final_depth_col" yaml:"collar_final_depth_col" envconfig:"COLLAR_FINAL_DEPTH_COL" validate:"required"`
	MaxInfill           float64 `json:"max_infill" yaml:"max_infill" envconfig:"MAX_INFILL" validate:"gt=0,lte=100000"`
}

// HasStartDepth reports whether collar start depths come from a column
func (m ColumnMapping) HasStartDepth() bool {
	return m.CollarStartDepthCol != "" && m.CollarStartDepthCol != NoneColumn
}

// DefaultColumnMapping returns the conventional column names
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		HoleIDCol:           "hole_id",
		FromCol:             "from",
		ToCol:               "to",
		SurveyHoleIDCol:     "hole_id",
		SurveyDepthCol:      "depth",
		AzimuthCol:          "azimuth",
		DipCol:              "dip",
		CollarHoleIDCol:     "hole_id",
		CollarEastingCol:    "easting",
		CollarNorthingCol:   "northing",
		CollarElevationCol:  "elevation",
		CollarStartDepthCol: NoneColumn,
		CollarFinalDepthCol: "final_depth",
		MaxInfill:           DefaultMaxInfill,
	}
}

// DipSign selects how dip turns into an elevation change
type DipSign string

const (
	// DipSignDown lowers elevation for positive dip
	DipSignDown DipSign = "down"
	// DipSignUp adds Δ·sin(dip) to elevation unchanged
	DipSignUp DipSign = "up"
)

// Factor returns the multiplier applied to Δ·sin(dip)
func (s DipSign) Factor() float64 {
	if s == DipSignUp {
		return 1
	}
	return -1
}

// DesurveyOptions tunes a run without touching column names
type DesurveyOptions struct {
	Workers   int     `json:"workers" yaml:"workers" envconfig:"WORKERS" validate:"min=0,max=256"`
	AnchorRow bool    `json:"anchor_row" yaml:"anchor_row" envconfig:"ANCHOR_ROW"`
	DipSign   DipSign `json:"dip_sign" yaml:"dip_sign" envconfig:"DIP_SIGN" validate:"omitempty,oneof=down up"`
}

// DefaultDesurveyOptions keeps the anchor row and treats positive dip as downward
func DefaultDesurveyOptions() DesurveyOptions {
	return DesurveyOptions{
		AnchorRow: true,
		DipSign:   DipSignDown,
	}
}

// DesurveyRequest bundles everything one run needs
type DesurveyRequest struct {
	Collar    RawTable        `json:"collar"`
	Survey    RawTable        `json:"survey"`
	Intervals RawTable        `json:"intervals"`
	Mapping   ColumnMapping   `json:"mapping"`
	Options   DesurveyOptions `json:"options"`
}

// Severity grades a diagnostic
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Stage names the component that raised a diagnostic
type Stage string

const (
	StageNormalize   Stage = "normalize"
	StageConsistency Stage = "consistency"
	StageInfill      Stage = "infill"
	StageIntegrate   Stage = "integrate"
)

// Diagnostic is a user-facing report line produced during a run
type Diagnostic struct {
	HoleID   string   `json:"hole_id,omitempty"`
	Severity Severity `json:"severity"`
	Stage    Stage    `json:"stage"`
	Message  string   `json:"message"`
}

// RunSummary aggregates counters for a run
type RunSummary struct {
	RunID           string        `json:"run_id"`
	Holes           int           `json:"holes"`
	HolesDesurveyed int           `json:"holes_desurveyed"`
	HolesFailed     int           `json:"holes_failed"`
	InputRows       int           `json:"input_rows"`
	SyntheticRows   int           `json:"synthetic_rows"`
	OutputRows      int           `json:"output_rows"`
	PositionedRows  int           `json:"positioned_rows"`
	Duration        time.Duration `json:"duration"`
}

// DesurveyResult is the outcome of a successful run
type DesurveyResult struct {
	Table       *ResultTable `json:"table"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     RunSummary   `json:"summary"`
}

// Failed returns diagnostics of error severity
func (r *DesurveyResult) Failed() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}
