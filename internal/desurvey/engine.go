package desurvey

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "drillcli/internal/errors"
	"drillcli/internal/infrastructure"
	"drillcli/internal/validation"
	"drillcli/pkg/contracts/domain"
)

// Engine runs the desurvey pipeline: normalize, consistency gate, then
// infill and integration per hole on a bounded worker pool.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine logging through logger
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Engine{logger: logger.With(slog.String("component", "desurvey_engine"))}
}

// holeOutcome is written by exactly one worker
type holeOutcome struct {
	rows        []domain.IntervalRecord
	diagnostics []domain.Diagnostic
	failed      bool
}

// Run desurveys every interval hole of req. Schema, validation and
// consistency problems abort the run; a hole that cannot be integrated is
// reported in the diagnostics and keeps its rows without positions.
// A run that positions no row at all returns *errors.EmptyResultError.
func (e *Engine) Run(ctx context.Context, req domain.DesurveyRequest) (*domain.DesurveyResult, error) {
	start := time.Now()

	runID := infrastructure.GetRunID(ctx)
	if runID == "" {
		runID = infrastructure.GenerateRunID()
		ctx = infrastructure.WithRunID(ctx, runID)
	}

	if err := validation.Struct(req.Mapping); err != nil {
		return nil, err
	}
	if err := validation.Struct(req.Options); err != nil {
		return nil, err
	}
	opts := resolveOptions(req.Options)

	tables, diags, err := Normalize(req)
	if err != nil {
		e.logger.WarnContext(ctx, "input rejected", slog.String("error", err.Error()))
		return nil, err
	}
	for _, d := range diags {
		e.logDiagnostic(ctx, d)
	}

	if err := CheckConsistency(tables); err != nil {
		e.logger.WarnContext(ctx, "hole id consistency check failed", slog.String("error", err.Error()))
		return nil, err
	}

	holes := splitByHole(tables.Intervals)
	outcomes := make([]holeOutcome, len(holes))

	e.logger.InfoContext(ctx, "desurvey started",
		slog.Int("holes", len(holes)),
		slog.Int("interval_rows", len(tables.Intervals)),
		slog.Int("workers", opts.Workers),
		slog.Float64("max_infill", req.Mapping.MaxInfill),
		slog.String("dip_sign", string(opts.DipSign)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := range holes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.processHole(gctx, tables, holes[i], req.Mapping.MaxInfill, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("desurvey cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("desurvey cancelled: %w", err)
	}

	table := &domain.ResultTable{
		Columns:          tables.Columns,
		HoleIDColumn:     tables.HoleIDColumn,
		FromColumn:       tables.FromColumn,
		ToColumn:         tables.ToColumn,
		AttributeColumns: tables.AttributeColumns,
	}

	summary := domain.RunSummary{
		RunID:     runID,
		Holes:     len(holes),
		InputRows: len(tables.Intervals),
	}

	for _, out := range outcomes {
		table.Rows = append(table.Rows, out.rows...)
		diags = append(diags, out.diagnostics...)
		if out.failed {
			summary.HolesFailed++
		} else {
			summary.HolesDesurveyed++
		}
	}

	for _, holeID := range collarsWithoutIntervals(tables) {
		d := domain.Diagnostic{
			HoleID:   holeID,
			Severity: domain.SeverityInfo,
			Stage:    domain.StageInfill,
			Message:  "collar has no interval rows; hole skipped",
		}
		e.logDiagnostic(ctx, d)
		diags = append(diags, d)
	}

	for _, row := range table.Rows {
		if row.Synthetic {
			summary.SyntheticRows++
		}
	}
	summary.OutputRows = len(table.Rows)
	summary.PositionedRows = table.PositionedCount()
	summary.Duration = time.Since(start)

	if summary.PositionedRows == 0 {
		e.logger.WarnContext(ctx, "desurvey produced no positioned rows",
			slog.Int("holes_failed", summary.HolesFailed))
		return nil, &apperrors.EmptyResultError{Diagnostics: diags}
	}

	e.logger.InfoContext(ctx, "desurvey completed",
		slog.Int("holes_desurveyed", summary.HolesDesurveyed),
		slog.Int("holes_failed", summary.HolesFailed),
		slog.Int("synthetic_rows", summary.SyntheticRows),
		slog.Int("output_rows", summary.OutputRows),
		slog.Duration("duration", summary.Duration))

	return &domain.DesurveyResult{
		Table:       table,
		Diagnostics: diags,
		Summary:     summary,
	}, nil
}

// processHole infills and integrates one hole. It only touches its own rows.
func (e *Engine) processHole(ctx context.Context, tables *Tables, rows []domain.IntervalRecord, maxInfill float64, opts domain.DesurveyOptions) holeOutcome {
	holeID := rows[0].HoleID

	collar, ok := tables.Collars[holeID]
	if !ok {
		err := apperrors.NewHoleIntegrationError(holeID, domain.StageInfill, apperrors.ErrNoCollar)
		return e.failHole(ctx, rows, domain.StageInfill, err)
	}

	filled, err := Infill(collar, rows, maxInfill, opts.AnchorRow)
	if err != nil {
		return e.failHole(ctx, rows, domain.StageInfill, apperrors.NewHoleIntegrationError(holeID, domain.StageInfill, err))
	}
	if ctx.Err() != nil {
		return holeOutcome{rows: filled}
	}

	sampler := NewSampler(tables.Surveys[holeID])
	if err := IntegrateHole(collar, filled, sampler, opts.DipSign); err != nil {
		return e.failHole(ctx, filled, domain.StageIntegrate, err)
	}

	e.logger.DebugContext(ctx, "hole desurveyed",
		slog.String("hole_id", holeID),
		slog.Int("rows", len(filled)),
		slog.Int("stations", sampler.Len()))

	return holeOutcome{rows: filled}
}

func (e *Engine) failHole(ctx context.Context, rows []domain.IntervalRecord, stage domain.Stage, err error) holeOutcome {
	d := domain.Diagnostic{
		HoleID:   rows[0].HoleID,
		Severity: domain.SeverityError,
		Stage:    stage,
		Message:  err.Error(),
	}
	e.logDiagnostic(ctx, d)
	return holeOutcome{rows: rows, diagnostics: []domain.Diagnostic{d}, failed: true}
}

func (e *Engine) logDiagnostic(ctx context.Context, d domain.Diagnostic) {
	level := slog.LevelInfo
	switch d.Severity {
	case domain.SeverityWarning:
		level = slog.LevelWarn
	case domain.SeverityError:
		level = slog.LevelError
	}
	e.logger.LogAttrs(ctx, level, d.Message,
		slog.String("hole_id", d.HoleID),
		slog.String("stage", string(d.Stage)))
}

// resolveOptions fills zero values with their defaults
func resolveOptions(opts domain.DesurveyOptions) domain.DesurveyOptions {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.DipSign == "" {
		opts.DipSign = domain.DipSignDown
	}
	return opts
}

// splitByHole cuts sorted intervals into one sub-slice per hole. Each
// sub-slice is a private copy so workers never share backing arrays.
func splitByHole(rows []domain.IntervalRecord) [][]domain.IntervalRecord {
	var holes [][]domain.IntervalRecord
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i].HoleID != rows[start].HoleID {
			hole := make([]domain.IntervalRecord, i-start)
			copy(hole, rows[start:i])
			holes = append(holes, hole)
			start = i
		}
	}
	return holes
}

func collarsWithoutIntervals(t *Tables) []string {
	inIntervals := make(map[string]bool)
	for _, id := range t.IntervalHoles() {
		inIntervals[id] = true
	}
	var ids []string
	for id := range t.Collars {
		if !inIntervals[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
