package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"drillcli/internal/infrastructure"
	"drillcli/internal/planner"
	"drillcli/pkg/contracts/domain"
)

// PlannerService projects planned holes
type PlannerService struct {
	tracer  trace.Tracer
	metrics *infrastructure.DesurveyMetrics
	logger  *slog.Logger
}

// NewPlannerService creates a planner service. tracer and metrics may be nil.
func NewPlannerService(tracer trace.Tracer, metrics *infrastructure.DesurveyMetrics, logger *slog.Logger) *PlannerService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.TracerName)
	}
	return &PlannerService{tracer: tracer, metrics: metrics, logger: logger}
}

// Plan projects every hole of table using sign for the vertical component
func (s *PlannerService) Plan(ctx context.Context, table domain.RawTable, cols planner.Columns, sign domain.DipSign) ([]domain.PlannedTrace, error) {
	ctx, span := s.tracer.Start(ctx, "planner.plan", trace.WithAttributes(
		attribute.Int("rows", len(table.Rows)),
	))
	defer span.End()

	traces, err := planner.New(s.logger, sign).PlanHoles(table, cols)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "planning failed", slog.String("error", err.Error()))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PlannedHolesTotal.Add(ctx, int64(len(traces)), metric.WithAttributes(attribute.String("dip_sign", string(sign))))
	}
	return traces, nil
}
