package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"drillcli/internal/config"
	apperrors "drillcli/internal/errors"
	"drillcli/internal/exporter"
	"drillcli/internal/infrastructure"
	"drillcli/internal/planner"
	"drillcli/internal/services"
	"drillcli/pkg/contracts/domain"
)

// Response formats of POST /api/v1/desurvey
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// RunIDHeader carries the run id of a desurvey response
const RunIDHeader = "X-Run-ID"

// DesurveyPayload is the body of POST /api/v1/desurvey. Mapping and options
// start from the server configuration; fields present in the body override them.
type DesurveyPayload struct {
	domain.DesurveyRequest
}

// Bind implements render.Binder
func (p *DesurveyPayload) Bind(r *http.Request) error {
	for _, t := range []struct {
		name  string
		table domain.RawTable
	}{
		{"collar", p.Collar},
		{"survey", p.Survey},
		{"intervals", p.Intervals},
	} {
		if len(t.table.Headers) == 0 {
			return fmt.Errorf("%s table is required", t.name)
		}
	}
	return nil
}

// PlanPayload is the body of POST /api/v1/plan
type PlanPayload struct {
	Holes   domain.RawTable `json:"holes"`
	Columns planner.Columns `json:"columns"`
	DipSign domain.DipSign  `json:"dip_sign"`
}

// Bind implements render.Binder
func (p *PlanPayload) Bind(r *http.Request) error {
	if len(p.Holes.Headers) == 0 {
		return errors.New("holes table is required")
	}
	switch p.DipSign {
	case domain.DipSignDown, domain.DipSignUp:
		return nil
	}
	return fmt.Errorf("invalid dip_sign %q", p.DipSign)
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlannedHoleResponse is one projected hole
type PlannedHoleResponse struct {
	HoleID string `json:"hole_id"`
	Start  point  `json:"start"`
	End    point  `json:"end"`
}

// PlanResponse is the body returned by POST /api/v1/plan
type PlanResponse struct {
	Count int                   `json:"count"`
	Holes []PlannedHoleResponse `json:"holes"`
}

// DesurveyHandler serves desurvey and planning requests
type DesurveyHandler struct {
	service      *services.DesurveyService
	planner      *services.PlannerService
	errorHandler *apperrors.ErrorHandler
	mapping      domain.ColumnMapping
	options      domain.DesurveyOptions
	output       config.OutputConfig
	logger       *slog.Logger
}

// NewDesurveyHandler creates a handler whose request defaults come from cfg
func NewDesurveyHandler(service *services.DesurveyService, plannerService *services.PlannerService, cfg *config.Config, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *DesurveyHandler {
	return &DesurveyHandler{
		service:      service,
		planner:      plannerService,
		errorHandler: errorHandler,
		mapping:      cfg.Mapping,
		options:      cfg.Options,
		output:       cfg.Output,
		logger:       logger.With(slog.String("handler", "desurvey")),
	}
}

// Routes mounts the handler under /api/v1
func (h *DesurveyHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/desurvey", h.Desurvey)
	r.Post("/plan", h.Plan)
	return r
}

// Desurvey handles POST /api/v1/desurvey
func (h *DesurveyHandler) Desurvey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatCSV {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("format", fmt.Sprintf("unsupported format %q", format)))
		return
	}

	out, err := h.outputConfig(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	payload := &DesurveyPayload{DesurveyRequest: domain.DesurveyRequest{
		Mapping: h.mapping,
		Options: h.options,
	}}
	if err := render.Bind(r, payload); err != nil {
		h.errorHandler.HandleError(w, r, bindError(err))
		return
	}

	ctx = infrastructure.WithRunID(ctx, infrastructure.GenerateRunID())
	result, err := h.service.Run(ctx, payload.DesurveyRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r.WithContext(ctx), err)
		return
	}

	w.Header().Set(RunIDHeader, result.Summary.RunID)

	if format == FormatCSV {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+config.DefaultOutputName(payload.Intervals.Name, FormatCSV)+`"`)
		w.WriteHeader(http.StatusOK)
		if err := exporter.NewCSVWriter(out, h.logger).Encode(ctx, w, result); err != nil {
			// Headers are gone; the client sees a truncated body
			h.logger.ErrorContext(ctx, "CSV response aborted", slog.String("error", err.Error()))
		}
		return
	}

	render.JSON(w, r, exporter.NewDocument(result, out.Precision))
}

// Plan handles POST /api/v1/plan
func (h *DesurveyHandler) Plan(w http.ResponseWriter, r *http.Request) {
	payload := &PlanPayload{
		Columns: planner.DefaultColumns(),
		DipSign: h.options.DipSign,
	}
	if payload.DipSign == "" {
		payload.DipSign = domain.DipSignDown
	}
	if err := render.Bind(r, payload); err != nil {
		h.errorHandler.HandleError(w, r, bindError(err))
		return
	}

	traces, err := h.planner.Plan(r.Context(), payload.Holes, payload.Columns, payload.DipSign)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := PlanResponse{Count: len(traces), Holes: make([]PlannedHoleResponse, len(traces))}
	for i, t := range traces {
		resp.Holes[i] = PlannedHoleResponse{
			HoleID: t.HoleID,
			Start:  point{X: t.Start.X, Y: t.Start.Y, Z: t.Start.Z},
			End:    point{X: t.End.X, Y: t.End.Y, Z: t.End.Z},
		}
	}
	render.JSON(w, r, resp)
}

// outputConfig applies the precision query parameter to the configured output
func (h *DesurveyHandler) outputConfig(r *http.Request) (config.OutputConfig, error) {
	out := h.output
	raw := r.URL.Query().Get("precision")
	if raw == "" {
		return out, nil
	}
	p, err := strconv.Atoi(raw)
	if err != nil || p < -1 || p > 15 {
		return out, apperrors.ErrValidation("precision", "precision must be an integer between -1 and 15")
	}
	out.Precision = p
	return out, nil
}

// bindError maps body decoding failures onto API errors
func bindError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.NewWithDetails(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
			"Request body exceeds maximum allowed size", map[string]interface{}{"max_bytes": maxErr.Limit})
	}
	return apperrors.InvalidRequestWithError(err)
}
