package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/evalcheck/internal/model"
	embedsql "github.com/gyeh/evalcheck/internal/sql"
)

// RecordRun stores a check summary and its findings in one transaction.
func RecordRun(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, s *model.CheckSummary) error {
	start := time.Now()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin record run: %w", err)
	}
	defer tx.Rollback(ctx)

	var numRows *int64
	if s.NumRows >= 0 {
		numRows = &s.NumRows
	}
	columns := s.Columns
	if columns == nil {
		columns = []string{}
	}
	metrics := s.Metrics
	if metrics == nil {
		metrics = []string{}
	}

	_, err = tx.Exec(ctx, embedsql.InsertRun,
		s.RunID,
		s.Source,
		s.Format,
		nilIfEmpty(s.SourceSHA256),
		numRows,
		columns,
		metrics,
		s.Status,
		nilIfEmpty(s.FailedPhase),
		nilIfEmpty(s.Error),
		s.DurationTotal.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	var copied int64
	if len(s.Findings) > 0 {
		copied, err = tx.CopyFrom(ctx,
			pgx.Identifier{"evalcheck", "validation_findings"},
			model.FindingColumns(),
			NewFindingSource(s.RunID, s.Findings),
		)
		if err != nil {
			return fmt.Errorf("copy findings: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit record run: %w", err)
	}

	log.Info().
		Str("run_id", s.RunID.String()).
		Int64("findings", copied).
		Dur("duration", time.Since(start)).
		Msg("validation run recorded")
	return nil
}

// RecentRuns returns up to limit stored runs, newest first.
func RecentRuns(ctx context.Context, pool *pgxpool.Pool, limit int) ([]model.RunRecord, error) {
	rows, err := pool.Query(ctx, embedsql.RecentRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var out []model.RunRecord
	for rows.Next() {
		var (
			r          model.RunRecord
			durationMS int64
		)
		if err := rows.Scan(&r.RunID, &r.Source, &r.Format, &r.NumRows, &r.Status,
			&r.FailedPhase, &r.Error, &durationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// RunFindings returns the stored findings of a run in recorded order.
func RunFindings(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) ([]model.Finding, error) {
	rows, err := pool.Query(ctx, embedsql.RunFindings, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	var out []model.Finding
	for rows.Next() {
		var f model.Finding
		if err := rows.Scan(&f.Kind, &f.Metric, &f.Column, &f.Expected, &f.Actual); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
