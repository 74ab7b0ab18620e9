package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/evalcheck/internal/config"
)

var (
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "evalcheck",
	Short: "Evaluation dataset preflight validator",
	Long: "Checks that an evaluation dataset (Parquet, JSON Lines, or a Postgres table) has the column " +
		"types and columns its metrics need before any metric runs.",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
