package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/seoward/seoward/internal/types"
	"github.com/spf13/cobra"
)

var driftCmd = &cobra.Command{
	Use:   "drift <site-id>",
	Short: "Show drift indicators for a site",
	Long: `Check a site's known page state for drift.

Indicators:
  ghost   pages that return errors but are still referenced
  zombie  non-home pages with no inbound links
  state   pages whose last known status is not 200

Example:
  seoward drift example-prod`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := eng.GetDrift(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s Drift status: %s\n\n", cyan("◎"), severitySprint(report.Status))

		for _, name := range []string{
			types.IndicatorGhost,
			types.IndicatorZombie,
			types.IndicatorState,
		} {
			indicator := report.Indicators[name]
			fmt.Printf("  %-8s %4d  %s\n", name, indicator.Count,
				severitySprint(indicator.Severity))
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(driftCmd)
}
