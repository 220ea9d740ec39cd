package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"drillcli/internal/config"
	"drillcli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	precision int
	bom       bool
	logger    *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(cfg config.OutputConfig, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{precision: cfg.Precision, bom: cfg.BOM, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write streams the result table to path: the input header followed by
// x, y, z, one line per row. Rows without a position keep empty coordinates.
func (w *CSVWriter) Write(ctx context.Context, path string, result *domain.DesurveyResult) error {
	if err := checkResult(result); err != nil {
		return err
	}

	stream, err := w.CreateStreamWriter(path, result.Table.Headers())
	if err != nil {
		return err
	}
	if err := w.writeRows(ctx, stream, result.Table); err != nil {
		stream.Close()
		return err
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	w.logger.Info("Result written",
		slog.String("file_path", path),
		slog.Int("record_count", len(result.Table.Rows)))
	return nil
}

// Encode streams the result table to out in the same layout as Write
func (w *CSVWriter) Encode(ctx context.Context, out io.Writer, result *domain.DesurveyResult) error {
	if err := checkResult(result); err != nil {
		return err
	}

	stream, err := w.newStream(out, nil, result.Table.Headers())
	if err != nil {
		return err
	}
	if err := w.writeRows(ctx, stream, result.Table); err != nil {
		return err
	}
	return stream.Close()
}

func (w *CSVWriter) writeRows(ctx context.Context, stream *StreamWriter, table *domain.ResultTable) error {
	for i, row := range table.Rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := stream.WriteRecord(record(table, row, w.precision)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return nil
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := ensureDir(filePath); err != nil {
		return err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	closer io.Closer
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	w.logger.Debug("Creating CSV stream writer",
		slog.String("file_path", filePath),
		slog.Int("header_count", len(headers)))

	if err := ensureDir(filePath); err != nil {
		return nil, err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	stream, err := w.newStream(file, file, headers)
	if err != nil {
		file.Close()
		return nil, err
	}
	return stream, nil
}

// newStream writes the optional BOM and the header. closer may be nil.
func (w *CSVWriter) newStream(out io.Writer, closer io.Closer, headers []string) (*StreamWriter, error) {
	if w.bom {
		if _, err := out.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{
		closer: closer,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes the stream and closes the underlying file, if any
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	err := s.writer.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// WriteDiagnosticsCSV writes run diagnostics next to a CSV result
func (w *CSVWriter) WriteDiagnosticsCSV(path string, diagnostics []domain.Diagnostic) error {
	records := make([][]string, len(diagnostics))
	for i, d := range diagnostics {
		records[i] = diagnosticRecord(d)
	}
	return w.WriteCSV(path, WriteOptions{
		Headers:   diagnosticHeaders,
		Records:   records,
		BOMPrefix: w.bom,
	})
}
