package desurvey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drillcli/pkg/contracts/domain"
)

func TestSampler_HoldLastValue(t *testing.T) {
	s := NewSampler([]domain.SurveyRecord{
		{Depth: 50, Azimuth: 90, Dip: 10},
		{Depth: 10, Azimuth: 0, Dip: 0},
	})

	tests := []struct {
		name    string
		depth   float64
		wantAz  float64
		wantDip float64
	}{
		{"between stations holds the shallower one", 30, 0, 0},
		{"above first station falls back to deepest", 5, 90, 10},
		{"exactly on a station", 10, 0, 0},
		{"exactly on the last station", 50, 90, 10},
		{"below last station", 500, 90, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			az, dip, ok := s.Sample(tt.depth)
			require.True(t, ok)
			assert.Equal(t, tt.wantAz, az)
			assert.Equal(t, tt.wantDip, dip)
		})
	}
}

func TestSampler_EqualDepthsTakeLast(t *testing.T) {
	s := NewSampler([]domain.SurveyRecord{
		{Depth: 0, Azimuth: 10, Dip: 80},
		{Depth: 20, Azimuth: 20, Dip: 70},
		{Depth: 20, Azimuth: 30, Dip: 60},
	})

	az, dip, ok := s.Sample(25)
	require.True(t, ok)
	assert.Equal(t, 30.0, az)
	assert.Equal(t, 60.0, dip)
}

func TestSampler_Empty(t *testing.T) {
	s := NewSampler(nil)
	assert.Equal(t, 0, s.Len())

	_, _, ok := s.Sample(10)
	assert.False(t, ok)

	var nilSampler *Sampler
	assert.Equal(t, 0, nilSampler.Len())
}

func TestNewSampler_DoesNotReorderInput(t *testing.T) {
	in := []domain.SurveyRecord{{Depth: 30}, {Depth: 10}}
	NewSampler(in)
	assert.Equal(t, 30.0, in[0].Depth)
}
