package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the directories the CLI writes into when the caller
// does not give an explicit destination
type Paths struct {
	ExecutableDir string
	DataDir       string
	OutputDir     string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return pathsFrom(filepath.Dir(exe)), nil
}

// pathsFrom lays out the directory tree under root
//
//	root/
//	  ├── data/
//	  │   └── output/   (desurveyed tables)
//	  └── logs/
func pathsFrom(root string) *Paths {
	dataDir := filepath.Join(root, "data")
	return &Paths{
		ExecutableDir: root,
		DataDir:       dataDir,
		OutputDir:     filepath.Join(dataDir, "output"),
		LogsDir:       filepath.Join(root, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetOutputPath returns the path for a result file
func (p *Paths) GetOutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// DefaultOutputName derives a result file name from the interval file,
// e.g. "assays.xlsx" with format "csv" becomes "assays_desurveyed.csv"
func DefaultOutputName(intervalsPath, format string) string {
	base := filepath.Base(intervalsPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "intervals"
	}

	ext := format
	if format == "sqlite" {
		ext = "db"
	}
	return fmt.Sprintf("%s_desurveyed.%s", stem, ext)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
