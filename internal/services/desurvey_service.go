package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"drillcli/internal/config"
	"drillcli/internal/desurvey"
	apperrors "drillcli/internal/errors"
	"drillcli/internal/exporter"
	"drillcli/internal/infrastructure"
	"drillcli/internal/tableio"
	"drillcli/pkg/contracts/domain"
)

// Run outcomes recorded in metrics
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusEmpty    = "empty"
	StatusError    = "error"
)

// InputFiles locates the three input tables. Sheets apply to workbooks only.
type InputFiles struct {
	Collar         string
	CollarSheet    string
	Survey         string
	SurveySheet    string
	Intervals      string
	IntervalsSheet string
}

// DesurveyService wraps the engine with logging, tracing and metrics
type DesurveyService struct {
	engine  *desurvey.Engine
	loader  *tableio.Loader
	tracer  trace.Tracer
	metrics *infrastructure.DesurveyMetrics
	logger  *slog.Logger
}

// NewDesurveyService creates a desurvey service. tracer and metrics may be nil.
func NewDesurveyService(tracer trace.Tracer, metrics *infrastructure.DesurveyMetrics, logger *slog.Logger) *DesurveyService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.TracerName)
	}
	return &DesurveyService{
		engine:  desurvey.NewEngine(logger),
		loader:  tableio.NewLoader(logger),
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "desurvey_service")),
	}
}

// LoadRequest reads the input files into a request
func (s *DesurveyService) LoadRequest(ctx context.Context, files InputFiles, mapping domain.ColumnMapping, opts domain.DesurveyOptions) (domain.DesurveyRequest, error) {
	ctx, span := s.tracer.Start(ctx, "desurvey.load")
	defer span.End()

	req := domain.DesurveyRequest{Mapping: mapping, Options: opts}

	for _, in := range []struct {
		path, sheet string
		dst         *domain.RawTable
	}{
		{files.Collar, files.CollarSheet, &req.Collar},
		{files.Survey, files.SurveySheet, &req.Survey},
		{files.Intervals, files.IntervalsSheet, &req.Intervals},
	} {
		table, err := s.loader.LoadFile(in.path, in.sheet)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return domain.DesurveyRequest{}, err
		}
		*in.dst = table
	}

	s.logger.InfoContext(ctx, "input tables loaded",
		slog.Int("collar_rows", len(req.Collar.Rows)),
		slog.Int("survey_rows", len(req.Survey.Rows)),
		slog.Int("interval_rows", len(req.Intervals.Rows)))
	return req, nil
}

// Run desurveys req inside a span and records the outcome
func (s *DesurveyService) Run(ctx context.Context, req domain.DesurveyRequest) (*domain.DesurveyResult, error) {
	start := time.Now()

	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetRunID(ctx)
	if runID == "" {
		runID = infrastructure.GenerateRunID()
		ctx = infrastructure.WithRunID(ctx, runID)
	}

	ctx, span := s.tracer.Start(ctx, "desurvey.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.Int("interval_rows", len(req.Intervals.Rows)),
		attribute.Int("collar_rows", len(req.Collar.Rows)),
		attribute.Int("survey_rows", len(req.Survey.Rows)),
	))
	defer span.End()

	result, err := s.engine.Run(ctx, req)
	if err != nil {
		status := statusOf(err)
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordRun(ctx, status, time.Since(start), 0, 0, len(req.Intervals.Rows), 0, 0, 0)
		s.logger.ErrorContext(ctx, "desurvey run failed",
			slog.String("status", status),
			slog.String("error_type", string(apperrors.Kind(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	sum := result.Summary
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"holes":            sum.Holes,
		"holes_failed":     sum.HolesFailed,
		"output_rows":      sum.OutputRows,
		"synthetic_rows":   sum.SyntheticRows,
		"positioned_rows":  sum.PositionedRows,
		"diagnostic_count": len(result.Diagnostics),
	})
	s.metrics.RecordRun(ctx, StatusSuccess, time.Since(start),
		sum.HolesDesurveyed, sum.HolesFailed, sum.InputRows, sum.SyntheticRows, sum.OutputRows, sum.PositionedRows)

	return result, nil
}

// Export writes result in the configured format. When summaryPath is
// set, per-hole summaries are also written there as CSV.
func (s *DesurveyService) Export(ctx context.Context, result *domain.DesurveyResult, path, summaryPath string, out config.OutputConfig, sign domain.DipSign) error {
	ctx, span := s.tracer.Start(ctx, "desurvey.export", trace.WithAttributes(
		attribute.String("format", out.Format),
	))
	defer span.End()

	w, err := exporter.New(out, s.logger)
	if err != nil {
		return apperrors.NewAppValidationError(err.Error())
	}
	if err := w.Write(ctx, path, result); err != nil {
		infrastructure.RecordError(ctx, err)
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}

	if summaryPath != "" {
		if sign == "" {
			sign = domain.DipSignDown
		}
		summaries := desurvey.Summarize(result.Table, sign)
		if err := exporter.WriteSummaryCSV(summaryPath, summaries, out); err != nil {
			infrastructure.RecordError(ctx, err)
			return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", summaryPath), err)
		}
		s.logger.InfoContext(ctx, "hole summaries written",
			slog.String("file_path", summaryPath),
			slog.Int("holes", len(summaries)))
	}
	return nil
}

// statusOf maps an engine error to a run status
func statusOf(err error) string {
	switch apperrors.Kind(err) {
	case apperrors.ErrTypeSchema, apperrors.ErrTypeKeyConsistency, apperrors.ErrTypeValidation:
		return StatusRejected
	case apperrors.ErrTypeEmptyResult:
		return StatusEmpty
	default:
		return StatusError
	}
}
