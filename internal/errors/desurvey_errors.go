package errors

import (
	"errors"
	"fmt"
	"strings"

	"drillcli/pkg/contracts/domain"
)

// Causes attached to HoleIntegrationError
var (
	ErrNoSurveyStations = errors.New("no usable survey stations")
	ErrNoCollar         = errors.New("no usable collar row")
	ErrNoAnchorRow      = errors.New("no row at the minimum depth")
	ErrNoIntervals      = errors.New("no interval rows")
	ErrInfillStalled    = errors.New("infill step does not advance depth")
	ErrInfillLimit      = errors.New("too many synthetic rows")
)

// SchemaError reports a missing or mistyped column. Row is the 1-based
// data row, or 0 when the whole column is at fault.
type SchemaError struct {
	Table  string
	Column string
	Row    int
	Value  string
	Reason string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s table: column %q", e.Table, e.Column)
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " value %q", e.Value)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// NewMissingColumnError reports a mapped column absent from the header row
func NewMissingColumnError(table, column string) *SchemaError {
	return &SchemaError{Table: table, Column: column, Reason: "column not found"}
}

// NewInvalidValueError reports a cell that cannot be coerced
func NewInvalidValueError(table, column string, row int, value, reason string) *SchemaError {
	return &SchemaError{Table: table, Column: column, Row: row, Value: value, Reason: reason}
}

// KeyConsistencyError lists every interval hole id absent from the collar
// or survey table
type KeyConsistencyError struct {
	MissingInCollar []string
	MissingInSurvey []string
}

func (e *KeyConsistencyError) Error() string {
	return fmt.Sprintf("missing hole IDs in collar data: [%s] and/or in survey data: [%s]",
		strings.Join(e.MissingInCollar, ", "), strings.Join(e.MissingInSurvey, ", "))
}

// HoleIDs returns every offending id once, collar misses first
func (e *KeyConsistencyError) HoleIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range append(append([]string{}, e.MissingInCollar...), e.MissingInSurvey...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// HoleIntegrationError marks a single hole that could not be desurveyed
type HoleIntegrationError struct {
	HoleID string
	Stage  domain.Stage
	Cause  error
}

func (e *HoleIntegrationError) Error() string {
	return fmt.Sprintf("hole %s: %s: %v", e.HoleID, e.Stage, e.Cause)
}

func (e *HoleIntegrationError) Unwrap() error {
	return e.Cause
}

// NewHoleIntegrationError wraps a per-hole failure
func NewHoleIntegrationError(holeID string, stage domain.Stage, cause error) *HoleIntegrationError {
	return &HoleIntegrationError{HoleID: holeID, Stage: stage, Cause: cause}
}

// EmptyResultError is returned when no row ends up with coordinates
type EmptyResultError struct {
	Diagnostics []domain.Diagnostic
}

func (e *EmptyResultError) Error() string {
	failed := 0
	for _, d := range e.Diagnostics {
		if d.Severity == domain.SeverityError {
			failed++
		}
	}
	return fmt.Sprintf("desurvey produced no positioned rows (%d error diagnostics)", failed)
}

// Kind classifies any error produced by the engine or its collaborators
func Kind(err error) ErrorType {
	if err == nil {
		return ""
	}
	var schemaErr *SchemaError
	var keyErr *KeyConsistencyError
	var holeErr *HoleIntegrationError
	var emptyErr *EmptyResultError
	var appErr *AppError
	switch {
	case errors.As(err, &schemaErr):
		return ErrTypeSchema
	case errors.As(err, &keyErr):
		return ErrTypeKeyConsistency
	case errors.As(err, &holeErr):
		return ErrTypeHoleIntegration
	case errors.As(err, &emptyErr):
		return ErrTypeEmptyResult
	case errors.As(err, &appErr):
		return appErr.Type
	default:
		return ErrTypeInternal
	}
}
