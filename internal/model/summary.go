package model

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Finding kinds.
const (
	FindingTypeMismatch = "type_mismatch"
	FindingMissing      = "missing_column"
	FindingUnknownMode  = "unknown_mode"
)

// Finding is one reportable problem extracted from a validation error.
type Finding struct {
	Kind     string
	Metric   string
	Column   string
	Expected string
	Actual   string
}

// CheckSummary captures the outcome of validating one dataset against a
// metric list.
type CheckSummary struct {
	RunID        uuid.UUID
	Source       string
	Format       string
	SourceSHA256 string
	NumRows      int64
	Columns      []string
	Metrics      []string
	Status       string
	// FailedPhase is empty when Status is StatusPassed.
	FailedPhase   string
	Error         string
	Findings      []Finding
	DurationTypes time.Duration
	DurationModes time.Duration
	DurationTotal time.Duration
}

// Passed reports whether every check succeeded.
func (s *CheckSummary) Passed() bool {
	return s.Status == StatusPassed
}

// CopyValues returns f's values in FindingColumns order, prefixed with the
// run id and a sequence number.
func (f *Finding) CopyValues(runID uuid.UUID, seq int32) []any {
	return []any{runID, seq, f.Kind, nilIfEmpty(f.Metric), nilIfEmpty(f.Column), nilIfEmpty(f.Expected), nilIfEmpty(f.Actual)}
}

// FindingColumns returns the COPY column list for the findings table.
func FindingColumns() []string {
	return []string{"run_id", "seq", "kind", "metric", "column_name", "expected", "actual"}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RunRecord is a stored validation run as listed by the runs command.
type RunRecord struct {
	RunID       uuid.UUID
	Source      string
	Format      string
	NumRows     int64
	Status      string
	FailedPhase string
	Error       string
	Duration    time.Duration
	CreatedAt   time.Time
}
