// Package exporter writes desurvey results to disk.
//
// Every format implements Writer:
//
// CSVWriter: the interval table with x, y, z appended, streamed row by row,
// with an optional UTF-8 BOM for Excel.
//
// XLSXWriter: a workbook with the result sheet and a diagnostics sheet.
//
// SQLiteWriter: a database file with the result table and a diagnostics table.
//
// JSONWriter: one document holding the summary, columns, rows and diagnostics.
//
// WriteSummaryCSV exports per-hole straight-line summaries.
//
// Example usage:
//
//	w, err := exporter.New(cfg.Output, logger)
//	if err != nil {
//		return err
//	}
//	err = w.Write(ctx, "assays_desurveyed.csv", result)
package exporter
