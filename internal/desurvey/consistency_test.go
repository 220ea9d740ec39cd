package desurvey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "drillcli/internal/errors"
	"drillcli/internal/shared/testutil"
)

func TestCheckConsistency(t *testing.T) {
	tables, _, err := Normalize(testutil.SampleRequest())
	require.NoError(t, err)
	assert.NoError(t, CheckConsistency(tables))
}

func TestCheckConsistency_ReportsAllMissingIDs(t *testing.T) {
	req := testutil.SampleRequest()
	req.Intervals.Rows = append(req.Intervals.Rows,
		[]string{"H9", "0", "5", "", ""},
		[]string{"H3", "0", "5", "", ""},
	)
	req.Survey.Rows = append(req.Survey.Rows, []string{"H3", "0", "0", "90"})

	tables, _, err := Normalize(req)
	require.NoError(t, err)

	err = CheckConsistency(tables)
	require.Error(t, err)

	var keyErr *apperrors.KeyConsistencyError
	require.True(t, errors.As(err, &keyErr))
	assert.Equal(t, []string{"H3", "H9"}, keyErr.MissingInCollar)
	assert.Equal(t, []string{"H9"}, keyErr.MissingInSurvey)
	assert.Contains(t, err.Error(), "H9")
}

func TestCheckConsistency_BlankRowsStillCount(t *testing.T) {
	req := testutil.SampleRequest()
	// Station dropped for a blank dip; the id is still known
	req.Survey.Rows[0][3] = ""

	tables, _, err := Normalize(req)
	require.NoError(t, err)
	assert.NoError(t, CheckConsistency(tables))
}
