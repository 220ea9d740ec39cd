package desurvey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "drillcli/internal/errors"
	"drillcli/internal/shared/testutil"
	"drillcli/pkg/contracts/domain"
)

func TestNormalize(t *testing.T) {
	tables, diags, err := Normalize(testutil.SampleRequest())
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Len(t, tables.Collars, 2)
	assert.Equal(t, 250.0, tables.Collars["DH02"].Elevation)
	assert.Equal(t, 0.0, tables.Collars["DH02"].StartDepth)
	assert.Len(t, tables.Surveys["DH02"], 2)

	assert.Equal(t, []string{"hole_id", "from", "to", "au_ppm", "lith"}, tables.Columns)
	assert.Equal(t, []string{"au_ppm", "lith"}, tables.AttributeColumns)
	assert.Equal(t, []string{"DH01", "DH02"}, tables.IntervalHoles())

	first := tables.Intervals[0]
	assert.Equal(t, "DH01", first.HoleID)
	assert.Equal(t, []string{"0.12", "granite"}, first.Attributes)
	assert.Equal(t, 0, first.Seq)
}

func TestNormalize_SortsByHoleThenTo(t *testing.T) {
	req := testutil.SampleRequest()
	req.Intervals.Rows = [][]string{
		{"DH02", "10", "15", "", ""},
		{"DH01", "10", "20", "", "second"},
		{"DH01", "0", "10", "", ""},
		{"DH01", "12", "20", "", "third"},
	}

	tables, _, err := Normalize(req)
	require.NoError(t, err)

	var got []string
	for _, row := range tables.Intervals {
		got = append(got, row.HoleID+":"+row.Attributes[1])
	}
	assert.Equal(t, []string{"DH01:", "DH01:second", "DH01:third", "DH02:"}, got)
}

func TestNormalize_MissingColumn(t *testing.T) {
	req := testutil.SampleRequest()
	req.Mapping.DipCol = "inclination"

	_, _, err := Normalize(req)
	require.Error(t, err)

	var schemaErr *apperrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, TableSurvey, schemaErr.Table)
	assert.Equal(t, "inclination", schemaErr.Column)
	assert.Zero(t, schemaErr.Row)
}

func TestNormalize_DuplicateIntervalColumn(t *testing.T) {
	for _, dup := range []string{"from", "lith"} {
		req := testutil.SampleRequest()
		req.Intervals.Headers = append(req.Intervals.Headers, dup)
		for i := range req.Intervals.Rows {
			req.Intervals.Rows[i] = append(req.Intervals.Rows[i], "99")
		}

		_, _, err := Normalize(req)

		var schemaErr *apperrors.SchemaError
		require.True(t, errors.As(err, &schemaErr), "header %q", dup)
		assert.Equal(t, dup, schemaErr.Column)
		assert.Equal(t, "duplicate column", schemaErr.Reason)
	}
}

func TestNormalize_InvalidNumber(t *testing.T) {
	req := testutil.SampleRequest()
	req.Collar.Rows[1][3] = "high"

	_, _, err := Normalize(req)

	var schemaErr *apperrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, TableCollar, schemaErr.Table)
	assert.Equal(t, "elevation", schemaErr.Column)
	assert.Equal(t, 2, schemaErr.Row)
	assert.Equal(t, "high", schemaErr.Value)
}

func TestNormalize_BlankIntervalDepth(t *testing.T) {
	req := testutil.SampleRequest()
	req.Intervals.Rows[2][2] = " "

	_, _, err := Normalize(req)

	var schemaErr *apperrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, TableIntervals, schemaErr.Table)
	assert.Equal(t, "to", schemaErr.Column)
	assert.Equal(t, 3, schemaErr.Row)
}

func TestNormalize_BlankSurveyCellDropsStation(t *testing.T) {
	req := testutil.SampleRequest()
	req.Survey.Rows[0][3] = ""

	tables, diags, err := Normalize(req)
	require.NoError(t, err)

	assert.Empty(t, tables.Surveys["DH01"])
	assert.True(t, tables.SurveyIDs["DH01"], "hole id still counts as present")
	require.Len(t, diags, 1)
	assert.Equal(t, domain.SeverityWarning, diags[0].Severity)
	assert.Equal(t, "DH01", diags[0].HoleID)
}

func TestNormalize_DuplicateCollarKeepsFirst(t *testing.T) {
	req := testutil.SampleRequest()
	req.Collar.Rows = append(req.Collar.Rows, []string{"DH01", "9", "9", "9", "9"})

	tables, diags, err := Normalize(req)
	require.NoError(t, err)

	assert.Equal(t, 100.0, tables.Collars["DH01"].Elevation)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "duplicate collar")
}

func TestNormalize_StartDepthColumn(t *testing.T) {
	req := testutil.SampleRequest()
	req.Mapping.CollarStartDepthCol = "start"
	req.Collar.Headers = append(req.Collar.Headers, "start")
	req.Collar.Rows[0] = append(req.Collar.Rows[0], "4.5")
	req.Collar.Rows[1] = append(req.Collar.Rows[1], "")

	tables, diags, err := Normalize(req)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, 4.5, tables.Collars["DH01"].StartDepth)
	assert.Equal(t, 0.0, tables.Collars["DH02"].StartDepth)
}

func TestNormalize_CoordinateColumnsNotPassedThrough(t *testing.T) {
	req := testutil.SampleRequest()
	req.Intervals.Headers = []string{"hole_id", "X", "from", "to", "z", "au_ppm"}
	req.Intervals.Rows = [][]string{{"DH01", "1", "0", "10", "2", "0.3"}}

	tables, _, err := Normalize(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"hole_id", "from", "to", "au_ppm"}, tables.Columns)
	assert.Equal(t, []string{"au_ppm"}, tables.AttributeColumns)
	assert.Equal(t, []string{"0.3"}, tables.Intervals[0].Attributes)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		blank   bool
		wantErr bool
	}{
		{"12.5", 12.5, false, false},
		{"-3", -3, false, false},
		{"", 0, true, false},
		{"NaN", 0, true, false},
		{"Inf", 0, false, true},
		{"abc", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, blank, err := parseNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.blank, blank)
			assert.Equal(t, tt.want, v)
		})
	}
}
