package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/evalcheck/internal/check"
	"github.com/gyeh/evalcheck/internal/dataset"
	"github.com/gyeh/evalcheck/internal/db"
	"github.com/gyeh/evalcheck/internal/exitcode"
	"github.com/gyeh/evalcheck/internal/logging"
	"github.com/gyeh/evalcheck/internal/model"
	"github.com/gyeh/evalcheck/internal/validate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a dataset against the column requirements of its metrics",
	RunE:  runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to a .parquet or .jsonl dataset")
	f.StringVar(&cfg.Table, "table", "", "Postgres table holding the dataset (schema.table)")
	f.StringVar(&cfg.ConfigPath, "config", "", "YAML file listing metrics")
	f.StringSliceVar(&cfg.MetricNames, "metric", nil, "Built-in metric to check (repeatable); \"all\" selects every built-in")
	f.BoolVar(&cfg.Record, "record", false, "Record the run in Postgres")
	checkCmd.MarkFlagsMutuallyExclusive("file", "table")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, verbose)
	ctx := cmd.Context()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if cfg.ConfigPath != "" {
		if err := cfg.LoadFromFile(cfg.ConfigPath); err != nil {
			log.Error().Err(err).Str("config", cfg.ConfigPath).Msg("failed to load config")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ResolveMetricNames(); err != nil {
		log.Error().Err(err).Msg("failed to resolve metrics")
		os.Exit(exitcode.UsageError)
	}

	var pool *pgxpool.Pool
	if cfg.Table != "" || cfg.Record {
		var err error
		pool, err = db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBError)
		}
	}

	code := checkDataset(ctx, log, cmd.OutOrStdout(), pool)
	if pool != nil {
		pool.Close()
	}
	if code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}

// checkDataset loads, validates, reports and optionally records; it returns
// the process exit code.
func checkDataset(ctx context.Context, log zerolog.Logger, out io.Writer, pool *pgxpool.Pool) int {
	var (
		ds  *dataset.Dataset
		err error
	)
	if cfg.Table != "" {
		ds, err = dataset.FromPostgres(ctx, pool, cfg.Table)
	} else {
		ds, err = dataset.Open(cfg.FilePath)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to read dataset schema")
		return exitcode.DatasetError
	}

	summary, checkErr := check.Run(ctx, log, ds, cfg.Metrics)
	printReport(out, summary)

	if cfg.Record {
		if err := db.RecordRun(ctx, pool, log, summary); err != nil {
			log.Error().Err(err).Msg("failed to record run")
			return exitcode.DBError
		}
	}

	return exitCodeFor(checkErr)
}

// exitCodeFor maps a check error to a process exit code.
func exitCodeFor(err error) int {
	var (
		te *validate.SchemaTypeError
		me *validate.MissingColumnsError
		ce *validate.ConfigurationError
	)
	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &te):
		return exitcode.SchemaTypeError
	case errors.As(err, &me):
		return exitcode.MissingColumns
	case errors.As(err, &ce):
		return exitcode.ConfigurationError
	default:
		return exitcode.UsageError
	}
}

func printReport(w io.Writer, s *model.CheckSummary) {
	fmt.Fprintln(w, "=== evalcheck ===")
	fmt.Fprintf(w, "Run:      %s\n", s.RunID)
	fmt.Fprintf(w, "Source:   %s (%s)\n", s.Source, s.Format)
	if s.SourceSHA256 != "" {
		fmt.Fprintf(w, "SHA-256:  %s\n", s.SourceSHA256)
	}
	if s.NumRows >= 0 {
		fmt.Fprintf(w, "Rows:     %d\n", s.NumRows)
	}
	fmt.Fprintf(w, "Columns:  %s\n", strings.Join(s.Columns, ", "))
	fmt.Fprintf(w, "Metrics:  %s\n", strings.Join(s.Metrics, ", "))
	fmt.Fprintln(w)

	if s.Passed() {
		fmt.Fprintln(w, "Validation: OK")
		return
	}

	fmt.Fprintf(w, "Validation: FAILED in %s phase\n", s.FailedPhase)
	fmt.Fprintf(w, "  %s\n", s.Error)
	for _, f := range s.Findings {
		switch f.Kind {
		case model.FindingTypeMismatch:
			fmt.Fprintf(w, "  - %-14s %-14s expected %s, got %s\n", f.Kind, f.Column, f.Expected, f.Actual)
		case model.FindingMissing:
			fmt.Fprintf(w, "  - %-14s %-14s needed by %s (mode %s)\n", f.Kind, f.Column, f.Metric, f.Expected)
		default:
			fmt.Fprintf(w, "  - %-14s metric %s has mode %q\n", f.Kind, f.Metric, f.Actual)
		}
	}
}
