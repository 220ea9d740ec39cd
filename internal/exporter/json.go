package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"drillcli/internal/config"
	"drillcli/internal/desurvey"
	"drillcli/pkg/contracts"
	"drillcli/pkg/contracts/domain"
)

// Document is the JSON export layout. Rows follow Columns; depths and
// coordinates are numbers and missing coordinates are null. Traces holds
// the polyline segments between consecutive positioned rows of each hole.
type Document struct {
	FormatVersion string                `json:"format_version"`
	Summary       domain.RunSummary     `json:"summary"`
	Columns       []string              `json:"columns"`
	Rows          [][]interface{}       `json:"rows"`
	Traces        []domain.TraceSegment `json:"traces"`
	Diagnostics   []domain.Diagnostic   `json:"diagnostics"`
}

// NewDocument lays a result out for JSON encoding
func NewDocument(result *domain.DesurveyResult, precision int) Document {
	table := result.Table
	doc := Document{
		FormatVersion: contracts.OutputFormatVersion,
		Summary:       result.Summary,
		Columns:       table.Headers(),
		Rows:          make([][]interface{}, len(table.Rows)),
		Traces:        desurvey.BuildTraces(table),
		Diagnostics:   result.Diagnostics,
	}
	for i, row := range table.Rows {
		doc.Rows[i] = cellValues(table, row, precision)
	}
	for i := range doc.Traces {
		doc.Traces[i].Start = roundVec(doc.Traces[i].Start, precision)
		doc.Traces[i].End = roundVec(doc.Traces[i].End, precision)
	}
	if doc.Traces == nil {
		doc.Traces = []domain.TraceSegment{}
	}
	if doc.Diagnostics == nil {
		doc.Diagnostics = []domain.Diagnostic{}
	}
	return doc
}

// JSONWriter writes the result as one indented JSON document
type JSONWriter struct {
	precision int
	logger    *slog.Logger
}

// NewJSONWriter creates a JSON writer
func NewJSONWriter(cfg config.OutputConfig, logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{precision: cfg.Precision, logger: logger}
}

// Write encodes the result document at path
func (w *JSONWriter) Write(ctx context.Context, path string, result *domain.DesurveyResult) error {
	if err := checkResult(result); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := w.Encode(file, result); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	w.logger.Info("Result written",
		slog.String("file_path", path),
		slog.Int("record_count", len(result.Table.Rows)))
	return nil
}

// Encode writes the indented document to out
func (w *JSONWriter) Encode(out io.Writer, result *domain.DesurveyResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(result, w.precision))
}
