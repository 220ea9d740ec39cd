package tableio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "drillcli/internal/errors"
	"drillcli/internal/validation"
	"drillcli/pkg/contracts/domain"
)

const utf8BOM = "\uFEFF"

// Loader reads table files after checking they exist and have a supported type
type Loader struct {
	logger    *slog.Logger
	validator *validation.FileValidator
}

// NewLoader creates a loader logging through logger
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "tableio"))
	return &Loader{
		logger:    logger,
		validator: validation.NewFileValidator(logger),
	}
}

// LoadFile reads path with a default loader
func LoadFile(path, sheet string) (domain.RawTable, error) {
	return NewLoader(nil).LoadFile(path, sheet)
}

// LoadFile reads a .csv/.txt file or an .xlsx/.xlsm workbook. For
// workbooks, sheet selects the worksheet; empty means the first one.
// The table is named after the file stem.
func (l *Loader) LoadFile(path, sheet string) (domain.RawTable, error) {
	if err := l.validator.ValidateTableFile(path); err != nil {
		return domain.RawTable{}, apperrors.NewAppValidationError(err.Error())
	}

	var table domain.RawTable
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = l.readWorkbook(path, sheet)
	default:
		table, err = l.readCSVFile(path)
	}
	if err != nil {
		return domain.RawTable{}, err
	}

	table.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	l.logger.Debug("table loaded",
		slog.String("file", path),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

func (l *Loader) readCSVFile(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, apperrors.NewParsingError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ReadCSV reads a comma-delimited table whose first record is the header.
// A leading UTF-8 BOM is dropped and header names are trimmed. Records may
// have fewer or more fields than the header.
func ReadCSV(r io.Reader) (domain.RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return domain.RawTable{}, apperrors.NewParsingError("table has no header row", err)
	}
	if err != nil {
		return domain.RawTable{}, apperrors.NewParsingError("failed to read header row", err)
	}

	table := domain.RawTable{Headers: cleanHeaders(header)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.RawTable{}, apperrors.NewParsingError("failed to read csv record", err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

func (l *Loader) readWorkbook(path, sheet string) (domain.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.RawTable{}, apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.RawTable{}, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return domain.RawTable{}, apperrors.NewParsingError(
			fmt.Sprintf("sheet %q not found in %s (available: %s)", sheet, path, strings.Join(sheets, ", ")), nil)
	}

	// Raw values keep numbers free of display formatting such as thousands separators
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return domain.RawTable{}, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	if len(rows) == 0 {
		return domain.RawTable{}, apperrors.NewParsingError(fmt.Sprintf("sheet %q has no header row", sheet), nil)
	}

	l.logger.Debug("worksheet selected",
		slog.String("file", path),
		slog.String("sheet", sheet))

	return domain.RawTable{
		Headers: cleanHeaders(rows[0]),
		Rows:    rows[1:],
	}, nil
}

func cleanHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
