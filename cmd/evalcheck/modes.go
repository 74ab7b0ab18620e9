package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyeh/evalcheck/internal/metric"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List evaluation modes, their required columns, and built-in metrics",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Evaluation modes:")
		for _, m := range metric.Modes() {
			cols, _ := metric.RequiredColumns(m)
			fmt.Fprintf(out, "  %-4s %s\n", m, strings.Join(cols, ", "))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Built-in metrics:")
		for _, m := range metric.Builtins() {
			fmt.Fprintf(out, "  %-18s %s\n", m.Name, m.Mode)
		}
	},
}

func init() {
	rootCmd.AddCommand(modesCmd)
}
