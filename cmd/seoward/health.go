package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/seoward/seoward/internal/types"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health <site-id>",
	Short: "Show the composite health report for a site",
	Long: `Evaluate a site's health across four weighted dimensions (stability,
compliance, content, structure) and show the composite score, grade,
drift status, observation confidence, and recent run history.

Results are cached; the cache expires on its own or when a gated
mutation lands.

Example:
  seoward health example-prod`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := eng.GetHealth(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		fmt.Printf("\n%s Health: %d/100 (%s)\n\n", cyan("⚕"),
			report.Health.Score, gradeSprint(report.Health.Grade))

		for _, name := range []string{
			types.DimensionStability,
			types.DimensionCompliance,
			types.DimensionContent,
			types.DimensionStructure,
		} {
			dim := report.Health.Dimensions[name]
			fmt.Printf("  %-12s %3d  %s\n", name, dim.Score,
				gray(fmt.Sprintf("(weight %.1f)", dim.Weight)))
		}

		fmt.Printf("\n  Drift:      %s\n", severitySprint(report.Drift.Status))
		fmt.Printf("  Confidence: %d (%s)\n", report.Confidence.Score,
			confidenceSprint(report.Confidence.Level))
		for _, reason := range report.Confidence.Reasons {
			fmt.Printf("    %s\n", gray(reason))
		}

		if len(report.Trends) > 0 {
			fmt.Println()
			for _, indicator := range []string{types.IndicatorGhost, types.IndicatorState} {
				if label, ok := report.Trends[indicator]; ok {
					fmt.Printf("  %-12s %s\n", indicator+" trend", label.Label())
				}
			}
		}

		fmt.Println()
		for _, line := range report.Explanation.Positive {
			fmt.Printf("  %s %s\n", green("+"), line)
		}
		for _, line := range report.Explanation.Negative {
			fmt.Printf("  %s %s\n", red("-"), line)
		}
		fmt.Printf("\n  %s\n\n", report.Explanation.Summary)

		if len(report.Runs) > 0 {
			fmt.Printf("%s Recent runs:\n", gray("→"))
			for _, run := range report.Runs {
				when := run.StartedAt.Format("2006-01-02 15:04")
				if run.CompletedAt != nil {
					when = run.CompletedAt.Format("2006-01-02 15:04")
				}
				fmt.Printf("  %s  %s  %d pages\n", when, run.Status, run.PagesCrawled)
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
