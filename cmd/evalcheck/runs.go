package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/evalcheck/internal/db"
	"github.com/gyeh/evalcheck/internal/exitcode"
	"github.com/gyeh/evalcheck/internal/logging"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded validation runs, newest first",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, verbose)
	ctx := cmd.Context()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or DATABASE_URL is required")
		os.Exit(exitcode.UsageError)
	}
	if runsLimit <= 0 {
		log.Error().Int("limit", runsLimit).Msg("--limit must be positive")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBError)
	}
	defer pool.Close()

	runs, err := db.RecentRuns(ctx, pool, runsLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list runs")
		pool.Close()
		os.Exit(exitcode.DBError)
	}

	out := cmd.OutOrStdout()
	for _, r := range runs {
		status := r.Status
		if r.FailedPhase != "" {
			status += "/" + r.FailedPhase
		}
		fmt.Fprintf(out, "%s  %s  %-14s %-8s %s\n",
			r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), r.RunID, status, r.Format, r.Source)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
	}
	return nil
}
