package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"drillcli/internal/config"
	"drillcli/pkg/contracts/domain"
)

// Supported output formats
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
	FormatJSON   = "json"
)

// Writer persists a desurvey result at path
type Writer interface {
	Write(ctx context.Context, path string, result *domain.DesurveyResult) error
}

// New returns the writer for cfg.Format
func New(cfg config.OutputConfig, logger *slog.Logger) (Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"), slog.String("format", cfg.Format))

	switch cfg.Format {
	case FormatCSV, "":
		return NewCSVWriter(cfg, logger), nil
	case FormatXLSX:
		return NewXLSXWriter(cfg, logger), nil
	case FormatSQLite:
		return NewSQLiteWriter(cfg, logger), nil
	case FormatJSON:
		return NewJSONWriter(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", cfg.Format)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

func checkResult(result *domain.DesurveyResult) error {
	if result == nil || result.Table == nil {
		return fmt.Errorf("nothing to export: empty result")
	}
	return nil
}
