package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"drillcli/internal/config"
	"drillcli/pkg/contracts/domain"
)

const diagnosticsSheet = "diagnostics"

// XLSXWriter writes the result and its diagnostics to a workbook
type XLSXWriter struct {
	precision int
	sheet     string
	logger    *slog.Logger
}

// NewXLSXWriter creates a workbook writer; cfg.Sheet names the result sheet
func NewXLSXWriter(cfg config.OutputConfig, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	sheet := cfg.Sheet
	if sheet == "" || sheet == diagnosticsSheet {
		sheet = "desurvey"
	}
	return &XLSXWriter{precision: cfg.Precision, sheet: sheet, logger: logger}
}

// Write saves a workbook at path. Depths and coordinates are numeric
// cells; coordinates of unpositioned rows are left empty.
func (w *XLSXWriter) Write(ctx context.Context, path string, result *domain.DesurveyResult) error {
	if err := checkResult(result); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
		return fmt.Errorf("failed to name result sheet: %w", err)
	}

	table := result.Table
	rows := make([][]interface{}, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = cellValues(table, row, w.precision)
	}
	if err := writeSheet(ctx, f, w.sheet, table.Headers(), rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(diagnosticsSheet); err != nil {
		return fmt.Errorf("failed to add diagnostics sheet: %w", err)
	}
	diags := make([][]interface{}, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		diags[i] = toInterfaces(diagnosticRecord(d))
	}
	if err := writeSheet(ctx, f, diagnosticsSheet, diagnosticHeaders, diags); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	w.logger.Info("Result written",
		slog.String("file_path", path),
		slog.String("sheet", w.sheet),
		slog.Int("record_count", len(table.Rows)),
		slog.Int("diagnostics", len(result.Diagnostics)))
	return nil
}

// writeSheet streams a header row and rows into sheet
func writeSheet(ctx context.Context, f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet %q: %w", sheet, err)
	}

	if err := sw.SetRow("A1", toInterfaces(headers)); err != nil {
		return fmt.Errorf("failed to write %q headers: %w", sheet, err)
	}

	for i, row := range rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write %q row %d: %w", sheet, i+1, err)
		}
	}

	return sw.Flush()
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
