package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drillcli/pkg/contracts/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "desurvey.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, domain.DefaultMaxInfill, cfg.Mapping.MaxInfill)
	assert.Equal(t, domain.NoneColumn, cfg.Mapping.CollarStartDepthCol)
	assert.True(t, cfg.Options.AnchorRow)
	assert.Equal(t, domain.DipSignDown, cfg.Options.DipSign)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "hole_id", cfg.Mapping.HoleIDCol)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "file overrides defaults",
			file: `
mapping:
  hole_id_col: BHID
  max_infill: 10
options:
  dip_sign: up
  anchor_row: false
server:
  read_timeout: 5s
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "BHID", cfg.Mapping.HoleIDCol)
				assert.Equal(t, 10.0, cfg.Mapping.MaxInfill)
				assert.Equal(t, "from", cfg.Mapping.FromCol)
				assert.Equal(t, domain.DipSignUp, cfg.Options.DipSign)
				assert.False(t, cfg.Options.AnchorRow)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "env overrides file",
			file: "mapping:\n  dip_col: Inclination\n",
			env: map[string]string{
				"DESURVEY_MAPPING_DIP_COL":       "DIP",
				"DESURVEY_OUTPUT_FORMAT":         "xlsx",
				"DESURVEY_OPTIONS_WORKERS":       "3",
				"DESURVEY_SERVER_RATE_LIMIT_RPS": "2.5",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "DIP", cfg.Mapping.DipCol)
				assert.Equal(t, "xlsx", cfg.Output.Format)
				assert.Equal(t, 3, cfg.Options.Workers)
				assert.Equal(t, 2.5, cfg.Server.RateLimit.RPS)
			},
		},
		{
			name:    "non-positive max infill is rejected",
			env:     map[string]string{"DESURVEY_MAPPING_MAX_INFILL": "0"},
			wantErr: true,
		},
		{
			name:    "infinite max infill from env is rejected",
			env:     map[string]string{"DESURVEY_MAPPING_MAX_INFILL": "Inf"},
			wantErr: true,
		},
		{
			name:    "infinite max infill from yaml is rejected",
			file:    "mapping:\n  max_infill: .inf\n",
			wantErr: true,
		},
		{
			name:    "same from and to columns are rejected",
			file:    "mapping:\n  from_col: depth\n  to_col: depth\n",
			wantErr: true,
		},
		{
			name:    "unknown dip sign is rejected",
			env:     map[string]string{"DESURVEY_OPTIONS_DIP_SIGN": "sideways"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "mapping: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			// Run from an empty directory so no stray desurvey.yaml is picked up
			chdir(t, t.TempDir())

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_LoggingFileRequiresPath(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FilePath")
}
