package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(paths.ExecutableDir))
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "data", "output"), paths.OutputDir)
	assert.Equal(t, filepath.Join(paths.ExecutableDir, "logs"), paths.LogsDir)
}

func TestEnsureDirectories(t *testing.T) {
	paths := pathsFrom(t.TempDir())

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.OutputDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Idempotent
	require.NoError(t, paths.EnsureDirectories())
}

func TestPathHelperMethods(t *testing.T) {
	paths := pathsFrom("/opt/drillcli")

	assert.Equal(t, filepath.Join("/opt/drillcli", "data", "output", "a.csv"), paths.GetOutputPath("a.csv"))
	assert.Equal(t, filepath.Join("/opt/drillcli", "logs", "run.log"), paths.GetLogPath("run.log"))
}

func TestDefaultOutputName(t *testing.T) {
	tests := []struct {
		in, format, want string
	}{
		{"assays.xlsx", "csv", "assays_desurveyed.csv"},
		{"/data/lith.csv", "xlsx", "lith_desurveyed.xlsx"},
		{"geo.csv", "sqlite", "geo_desurveyed.db"},
		{"", "json", "intervals_desurveyed.json"},
	}

	for _, tt := range tests {
		t.Run(tt.in+"_"+tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultOutputName(tt.in, tt.format))
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.csv")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "missing.csv")))
}
