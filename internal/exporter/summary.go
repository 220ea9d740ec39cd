package exporter

import (
	"drillcli/internal/config"
	"drillcli/pkg/contracts/domain"
)

// SummaryHeaders is the column layout of WriteSummaryCSV
var SummaryHeaders = []string{"hole_id", "x", "y", "elevation", "azimuth", "dip", "total_depth"}

// WriteSummaryCSV writes one line per hole summary. Angles are rounded to
// two decimals; coordinates and length follow the writer's precision.
func (w *CSVWriter) WriteSummaryCSV(path string, summaries []domain.HoleSummary) error {
	records := make([][]string, len(summaries))
	for i, s := range summaries {
		records[i] = []string{
			s.HoleID,
			formatFloat(s.X, w.precision),
			formatFloat(s.Y, w.precision),
			formatFloat(s.Elevation, w.precision),
			formatFloat(roundTo(s.Azimuth, 2), -1),
			formatFloat(roundTo(s.Dip, 2), -1),
			formatFloat(s.TotalDepth, w.precision),
		}
	}
	return w.WriteCSV(path, WriteOptions{
		Headers:   SummaryHeaders,
		Records:   records,
		BOMPrefix: w.bom,
	})
}

// WriteSummaryCSV writes hole summaries with a CSV writer built from cfg
func WriteSummaryCSV(path string, summaries []domain.HoleSummary, cfg config.OutputConfig) error {
	return NewCSVWriter(cfg, nil).WriteSummaryCSV(path, summaries)
}
