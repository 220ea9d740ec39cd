package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"drillcli/internal/config"
	"drillcli/pkg/contracts/domain"
)

// SQLiteWriter writes the result table and diagnostics into a SQLite file
type SQLiteWriter struct {
	precision int
	table     string
	logger    *slog.Logger
}

// NewSQLiteWriter creates a database writer; cfg.Table names the result table
func NewSQLiteWriter(cfg config.OutputConfig, logger *slog.Logger) *SQLiteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	table := cfg.Table
	if table == "" {
		table = "desurvey"
	}
	return &SQLiteWriter{precision: cfg.Precision, table: table, logger: logger}
}

// Write replaces the result table (and <table>_diagnostics) in the
// database at path inside one transaction. Depths and coordinates are
// REAL columns, NULL where a row has no position; other columns are TEXT.
func (w *SQLiteWriter) Write(ctx context.Context, path string, result *domain.DesurveyResult) (retErr error) {
	if err := checkResult(result); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	table := result.Table
	headers := table.Headers()
	if err := createTable(ctx, tx, w.table, headers, resultColumnType(table)); err != nil {
		return err
	}
	rows := make([][]interface{}, len(table.Rows))
	for i, row := range table.Rows {
		rows[i] = cellValues(table, row, w.precision)
	}
	if err := insertRows(ctx, tx, w.table, headers, rows); err != nil {
		return err
	}

	diagTable := w.table + "_diagnostics"
	if err := createTable(ctx, tx, diagTable, diagnosticHeaders, func(string) string { return "TEXT" }); err != nil {
		return err
	}
	diags := make([][]interface{}, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		diags[i] = toInterfaces(diagnosticRecord(d))
	}
	if err := insertRows(ctx, tx, diagTable, diagnosticHeaders, diags); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	w.logger.Info("Result written",
		slog.String("file_path", path),
		slog.String("table", w.table),
		slog.Int("record_count", len(rows)))
	return nil
}

func resultColumnType(table *domain.ResultTable) func(string) string {
	return func(col string) string {
		switch col {
		case table.FromColumn, table.ToColumn, "x", "y", "z":
			return "REAL"
		}
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func createTable(ctx context.Context, tx *sql.Tx, name string, columns []string, columnType func(string) string) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " " + columnType(col)
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, name string, columns []string, rows [][]interface{}) error {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(quoted, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", name, err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", name, i+1, err)
		}
	}
	return nil
}
