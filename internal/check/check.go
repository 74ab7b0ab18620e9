package check

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/evalcheck/internal/dataset"
	"github.com/gyeh/evalcheck/internal/metric"
	"github.com/gyeh/evalcheck/internal/model"
	"github.com/gyeh/evalcheck/internal/validate"
)

// Phase names reported in PhaseError and CheckSummary.FailedPhase.
const (
	PhaseTypes = "types"
	PhaseModes = "modes"
)

// PhaseError wraps an error with the phase where it occurred.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Run validates ds against metrics: column types first, then evaluation-mode
// column coverage. The returned summary is populated on success and failure;
// on failure the error is a *PhaseError.
func Run(ctx context.Context, log zerolog.Logger, ds *dataset.Dataset, metrics []metric.Metric) (*model.CheckSummary, error) {
	totalStart := time.Now()

	summary := &model.CheckSummary{
		RunID:        uuid.New(),
		Source:       ds.Name,
		Format:       string(ds.Format),
		SourceSHA256: ds.SHA256,
		NumRows:      ds.NumRows,
		Columns:      ds.Columns.ColumnNames(),
		Metrics:      metricNames(metrics),
	}
	log = log.With().Str("run_id", summary.RunID.String()).Str("source", ds.Name).Logger()

	fail := func(phase string, err error) (*model.CheckSummary, error) {
		summary.Status = model.StatusFailed
		summary.FailedPhase = phase
		summary.Error = err.Error()
		summary.Findings = Findings(err)
		summary.DurationTotal = time.Since(totalStart)
		log.Warn().Err(err).Str("phase", phase).Msg("dataset validation failed")
		return summary, &PhaseError{Phase: phase, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(PhaseTypes, err)
	}

	// Phase 1: column types
	start := time.Now()
	err := validate.ColumnTypes(ds.Columns)
	summary.DurationTypes = time.Since(start)
	if err != nil {
		return fail(PhaseTypes, err)
	}
	log.Debug().Int("columns", ds.Columns.Len()).Msg("column types ok")

	if err := ctx.Err(); err != nil {
		return fail(PhaseModes, err)
	}

	// Phase 2: evaluation modes
	start = time.Now()
	err = validate.EvaluationModes(ds.Columns, metrics)
	summary.DurationModes = time.Since(start)
	if err != nil {
		return fail(PhaseModes, err)
	}

	summary.Status = model.StatusPassed
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int("columns", len(summary.Columns)).
		Int("metrics", len(metrics)).
		Int64("rows", ds.NumRows).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("dataset validation passed")

	return summary, nil
}

// Findings converts a validation error into report rows. Errors that do not
// come from the validate package yield no findings.
func Findings(err error) []model.Finding {
	var (
		te *validate.SchemaTypeError
		me *validate.MissingColumnsError
		ce *validate.ConfigurationError
	)
	switch {
	case errors.As(err, &te):
		return []model.Finding{{
			Kind:     model.FindingTypeMismatch,
			Column:   te.Column,
			Expected: te.Expected.String(),
			Actual:   te.Actual.String(),
		}}
	case errors.As(err, &me):
		out := make([]model.Finding, len(me.Missing))
		for i, col := range me.Missing {
			out[i] = model.Finding{
				Kind:     model.FindingMissing,
				Metric:   me.Metric,
				Column:   col,
				Expected: string(me.Mode),
			}
		}
		return out
	case errors.As(err, &ce):
		return []model.Finding{{
			Kind:   model.FindingUnknownMode,
			Metric: ce.Metric,
			Actual: string(ce.Mode),
		}}
	}
	return nil
}

func metricNames(metrics []metric.Metric) []string {
	out := make([]string, len(metrics))
	for i, m := range metrics {
		out[i] = m.Name
	}
	return out
}
