package exporter

import (
	"gonum.org/v1/gonum/spatial/r3"

	"drillcli/internal/config"
	"drillcli/pkg/contracts/domain"
)

func vec(x, y, z float64) *r3.Vec {
	return &r3.Vec{X: x, Y: y, Z: z}
}

// sampleResult has an anchor, a real row, a synthetic row and one
// failed hole without positions
func sampleResult() *domain.DesurveyResult {
	return &domain.DesurveyResult{
		Table: &domain.ResultTable{
			Columns:          []string{"hole_id", "from", "to", "lith", "au"},
			HoleIDColumn:     "hole_id",
			FromColumn:       "from",
			ToColumn:         "to",
			AttributeColumns: []string{"lith", "au"},
			Rows: []domain.IntervalRecord{
				{HoleID: "DH01", From: 0, To: 0, Synthetic: true, Anchor: true, Position: vec(10, 20, 100)},
				{HoleID: "DH01", From: 0, To: 2.5, Attributes: []string{"granite, weathered", "0.12"}, Position: vec(10, 20, 97.5)},
				{HoleID: "DH01", From: 2.5, To: 10, Synthetic: true, Position: vec(10, 20, 90.123456)},
				{HoleID: "DH03", From: 0, To: 4, Attributes: []string{"dyke", ""}},
			},
		},
		Diagnostics: []domain.Diagnostic{
			{HoleID: "DH03", Severity: domain.SeverityError, Stage: domain.StageIntegrate, Message: "hole DH03: integrate: no usable survey stations"},
		},
		Summary: domain.RunSummary{RunID: "run-1", Holes: 2, HolesDesurveyed: 1, HolesFailed: 1, OutputRows: 4, PositionedRows: 3},
	}
}

func outputConfig(format string) config.OutputConfig {
	cfg := config.Default().Output
	cfg.Format = format
	return cfg
}
