package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drillcli/internal/shared/testutil"
	"drillcli/pkg/contracts"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// inputArgs writes the fixture tables into dir and returns the run flags for them
func inputArgs(t *testing.T, dir string) []string {
	t.Helper()
	return []string{
		"--collar", writeFile(t, dir, "collar.csv", testutil.CollarCSV),
		"--survey", writeFile(t, dir, "survey.csv", testutil.SurveyCSV),
		"--intervals", writeFile(t, dir, "assays.csv", testutil.IntervalCSV),
	}
}

func readRecords(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "result.csv")

	args := append([]string{"run"}, inputArgs(t, dir)...)
	stdout, _, err := execute(t, append(args, "-o", out)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "2 holes desurveyed, 0 failed, 12 rows")
	assert.Contains(t, stdout, out)

	records := readRecords(t, out)
	require.Len(t, records, 13)
	assert.Equal(t, []string{"hole_id", "from", "to", "au_ppm", "lith", "x", "y", "z"}, records[0])
	assert.Equal(t, []string{"DH01", "0", "0", "", "", "0", "0", "100"}, records[1])
}

func TestRunCommand_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "result.csv")
	cfgPath := writeFile(t, dir, "desurvey.yaml", `
options:
  anchor_row: true
output:
  precision: 2
`)

	args := append([]string{"run", "--config", cfgPath, "--no-anchor", "-o", out}, inputArgs(t, dir)...)
	_, _, err := execute(t, args...)
	require.NoError(t, err)

	records := readRecords(t, out)
	require.Len(t, records, 11)
	assert.Equal(t, []string{"DH01", "0", "10", "0.12", "granite", "0.00", "0.00", "90.00"}, records[1])
}

func TestRunCommand_MappingFlags(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "result.csv")
	intervals := strings.Replace(testutil.IntervalCSV, "hole_id,from,to", "bhid,depth_from,depth_to", 1)

	args := []string{
		"run",
		"--collar", writeFile(t, dir, "collar.csv", testutil.CollarCSV),
		"--survey", writeFile(t, dir, "survey.csv", testutil.SurveyCSV),
		"--intervals", writeFile(t, dir, "assays.csv", intervals),
		"--hole-id-col", "bhid",
		"--from-col", "depth_from",
		"--to-col", "depth_to",
		"-o", out,
	}
	_, _, err := execute(t, args...)
	require.NoError(t, err)

	records := readRecords(t, out)
	assert.Equal(t, "bhid", records[0][0])
	assert.Len(t, records, 13)
}

func TestRunCommand_JSONWithSummary(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "result.json")
	summary := filepath.Join(dir, "summary.csv")
	diagnostics := filepath.Join(dir, "diagnostics.csv")

	args := append([]string{"run", "--format", "json", "-o", out, "--summary", summary, "--diagnostics", diagnostics}, inputArgs(t, dir)...)
	_, _, err := execute(t, args...)
	require.NoError(t, err)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc struct {
		Rows [][]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Len(t, doc.Rows, 12)

	summaries := readRecords(t, summary)
	require.Len(t, summaries, 3)
	assert.Equal(t, "DH01", summaries[1][0])
	assert.Equal(t, "DH02", summaries[2][0])

	diags := readRecords(t, diagnostics)
	assert.Equal(t, []string{"hole_id", "severity", "stage", "message"}, diags[0])
}

func TestRunCommand_EmptyResultWritesDiagnostics(t *testing.T) {
	dir := t.TempDir()
	diagnostics := filepath.Join(dir, "diagnostics.csv")
	survey := "hole_id,depth,azimuth,dip\nDH01,0,0,\nDH02,0,90,\n"

	args := []string{
		"run",
		"--collar", writeFile(t, dir, "collar.csv", testutil.CollarCSV),
		"--survey", writeFile(t, dir, "survey.csv", survey),
		"--intervals", writeFile(t, dir, "assays.csv", testutil.IntervalCSV),
		"--diagnostics", diagnostics,
		"-o", filepath.Join(dir, "result.csv"),
	}
	_, _, err := execute(t, args...)
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "result.csv"))
	diags := readRecords(t, diagnostics)
	assert.Greater(t, len(diags), 1)
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	inputs := inputArgs(t, dir)
	out := filepath.Join(dir, "result.csv")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing inputs", []string{"run"}, "required flag"},
		{"bad dip sign", append([]string{"run", "--dip-sign", "sideways", "-o", out}, inputs...), "invalid --dip-sign"},
		{"bad format", append([]string{"run", "--format", "parquet", "-o", out}, inputs...), "Format"},
		{"bad log level", append([]string{"run", "--log-level", "loud", "-o", out}, inputs...), "invalid --log-level"},
		{"missing file", []string{"run", "--collar", filepath.Join(dir, "nope.csv"), "--survey", inputs[3], "--intervals", inputs[5], "-o", out}, "nope.csv"},
		{"unknown column", append([]string{"run", "--dip-col", "inclination", "-o", out}, inputs...), "inclination"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPlanCommand(t *testing.T) {
	dir := t.TempDir()
	holes := writeFile(t, dir, "planned.csv",
		"hole_id,easting,northing,elevation,azimuth,dip,depth\n"+
			"P1,100,200,50,0,90,120\n"+
			"P2,0,0,0,90,0,10\n")

	t.Run("stdout", func(t *testing.T) {
		stdout, _, err := execute(t, "plan", "--holes", holes, "--precision", "3")
		require.NoError(t, err)

		records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"P1", "100.000", "200.000", "50.000", "100.000", "200.000", "-70.000"}, records[1])
		assert.Equal(t, []string{"P2", "0.000", "0.000", "0.000", "10.000", "0.000", "0.000"}, records[2])
	})

	t.Run("up convention to file", func(t *testing.T) {
		out := filepath.Join(dir, "traces.csv")
		_, stderr, err := execute(t, "plan", "--holes", holes, "--dip-sign", "up", "--precision", "1", "-o", out)
		require.NoError(t, err)
		assert.Contains(t, stderr, "2 planned holes written")

		records := readRecords(t, out)
		assert.Equal(t, "170.0", records[1][6])
	})

	t.Run("missing column", func(t *testing.T) {
		_, _, err := execute(t, "plan", "--holes", holes, "--depth-col", "length")
		assert.ErrorContains(t, err, "length")
	})
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, contracts.GetVersionString())
}
