package services

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"drillcli/internal/config"
	apperrors "drillcli/internal/errors"
	"drillcli/internal/infrastructure"
	"drillcli/internal/shared/testutil"
	"drillcli/pkg/contracts/domain"
)

type serviceFixture struct {
	service  *DesurveyService
	recorder *tracetest.SpanRecorder
	otel     *infrastructure.OTelProviders
	logs     *testutil.BufferedSlogHandler
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	logger, logs := testutil.NewTestLogger(t)

	tel := config.Default().Telemetry
	providers, err := infrastructure.InitializeOTel(tel, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	metrics, err := infrastructure.CreateDesurveyMetrics(providers.Meter)
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return &serviceFixture{
		service:  NewDesurveyService(tp.Tracer("test"), metrics, logger),
		recorder: recorder,
		otel:     providers,
		logs:     logs,
	}
}

func (f *serviceFixture) scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	f.otel.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func (f *serviceFixture) span(t *testing.T, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, s := range f.recorder.Ended() {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("span %q not recorded", name)
	return nil
}

func TestDesurveyService_Run(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.service.Run(context.Background(), testutil.SampleRequest())
	require.NoError(t, err)
	assert.Equal(t, 12, result.Summary.PositionedRows)

	span := f.span(t, "desurvey.run")
	assert.NotEqual(t, codes.Error, span.Status().Code)

	attrs := map[string]interface{}{}
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, result.Summary.RunID, attrs["run_id"])
	assert.Equal(t, int64(12), attrs["output_rows"])

	metrics := f.scrape(t)
	assert.Contains(t, metrics, `desurvey_runs_total{`)
	assert.Contains(t, metrics, `status="success"`)

	assert.True(t, f.logs.ContainsAttr("run_id", result.Summary.RunID) || f.logs.ContainsMessage("desurvey completed"))
}

func TestDesurveyService_RunRejected(t *testing.T) {
	f := newServiceFixture(t)

	req := testutil.SampleRequest()
	req.Intervals.Rows = append(req.Intervals.Rows, []string{"H9", "0", "1", "", ""})

	result, err := f.service.Run(context.Background(), req)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.ErrTypeKeyConsistency, apperrors.Kind(err))

	assert.Equal(t, codes.Error, f.span(t, "desurvey.run").Status().Code)
	assert.Contains(t, f.scrape(t), `status="rejected"`)
	assert.True(t, f.logs.ContainsMessage("desurvey run failed"))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusRejected, statusOf(&apperrors.SchemaError{}))
	assert.Equal(t, StatusRejected, statusOf(apperrors.NewAppValidationError("bad")))
	assert.Equal(t, StatusEmpty, statusOf(&apperrors.EmptyResultError{}))
	assert.Equal(t, StatusError, statusOf(context.Canceled))
}

func writeInputs(t *testing.T) InputFiles {
	t.Helper()
	dir := t.TempDir()
	files := InputFiles{
		Collar:    filepath.Join(dir, "collar.csv"),
		Survey:    filepath.Join(dir, "survey.csv"),
		Intervals: filepath.Join(dir, "assays.csv"),
	}
	require.NoError(t, os.WriteFile(files.Collar, []byte(testutil.CollarCSV), 0644))
	require.NoError(t, os.WriteFile(files.Survey, []byte(testutil.SurveyCSV), 0644))
	require.NoError(t, os.WriteFile(files.Intervals, []byte(testutil.IntervalCSV), 0644))
	return files
}

func TestDesurveyService_LoadRunExport(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	req, err := f.service.LoadRequest(ctx, writeInputs(t), domain.DefaultColumnMapping(), domain.DefaultDesurveyOptions())
	require.NoError(t, err)
	assert.Equal(t, "assays", req.Intervals.Name)

	result, err := f.service.Run(ctx, req)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "assays_desurveyed.csv")
	summary := filepath.Join(t.TempDir(), "summary.csv")
	require.NoError(t, f.service.Export(ctx, result, out, summary, config.Default().Output, domain.DipSignDown))

	assert.FileExists(t, out)
	content, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hole_id,x,y,elevation,azimuth,dip,total_depth")
	assert.Contains(t, string(content), "DH01,0,0,100,0,90,60")
}

func TestDesurveyService_LoadRequestMissingFile(t *testing.T) {
	f := newServiceFixture(t)
	files := writeInputs(t)
	files.Survey = filepath.Join(t.TempDir(), "nope.csv")

	_, err := f.service.LoadRequest(context.Background(), files, domain.DefaultColumnMapping(), domain.DefaultDesurveyOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestDesurveyService_ExportUnknownFormat(t *testing.T) {
	f := newServiceFixture(t)
	result, err := f.service.Run(context.Background(), testutil.SampleRequest())
	require.NoError(t, err)

	out := config.Default().Output
	out.Format = "parquet"
	err = f.service.Export(context.Background(), result, filepath.Join(t.TempDir(), "x"), "", out, "")
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.Kind(err))
}
