package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "drillcli/internal/errors"
	"drillcli/pkg/contracts/domain"
)

func TestStruct_ColumnMapping(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.ColumnMapping)
		wantErr  bool
		contains string
	}{
		{name: "defaults are valid", mutate: func(*domain.ColumnMapping) {}},
		{
			name:     "missing dip column",
			mutate:   func(m *domain.ColumnMapping) { m.DipCol = "" },
			wantErr:  true,
			contains: "dip_col is required",
		},
		{
			name:     "zero max infill",
			mutate:   func(m *domain.ColumnMapping) { m.MaxInfill = 0 },
			wantErr:  true,
			contains: "max_infill must be greater than 0",
		},
		{
			name:     "infinite max infill",
			mutate:   func(m *domain.ColumnMapping) { m.MaxInfill = math.Inf(1) },
			wantErr:  true,
			contains: "max_infill must be at most 100000",
		},
		{
			name:     "NaN max infill",
			mutate:   func(m *domain.ColumnMapping) { m.MaxInfill = math.NaN() },
			wantErr:  true,
			contains: "max_infill must be greater than 0",
		},
		{
			name:     "from equals to",
			mutate:   func(m *domain.ColumnMapping) { m.ToCol = m.FromCol },
			wantErr:  true,
			contains: "from_col must differ",
		},
		{
			name:   "start depth column may be empty",
			mutate: func(m *domain.ColumnMapping) { m.CollarStartDepthCol = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.DefaultColumnMapping()
			tt.mutate(&m)

			err := Struct(m)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Equal(t, apperrors.ErrTypeValidation, apperrors.Kind(err))
		})
	}
}

func TestStruct_PlannedHole(t *testing.T) {
	hole := domain.PlannedHole{HoleID: "P1", Azimuth: 360, Dip: 45, Depth: 100}

	err := Struct(hole)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "lt", appErr.Context["azimuth"])
}

func TestStruct_DesurveyOptions(t *testing.T) {
	assert.NoError(t, Struct(domain.DefaultDesurveyOptions()))
	assert.Error(t, Struct(domain.DesurveyOptions{DipSign: "sideways"}))
	assert.NoError(t, Struct(domain.DesurveyOptions{}))
}
