package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var readinessCmd = &cobra.Command{
	Use:   "readiness <site-id>",
	Short: "Check whether a site is ready for autonomous operation",
	Long: `Apply the readiness rules to a site's current health, drift, and open
findings. A site is ready only when no blocker fires; every blocker is
reported, not just the first.

Exits non-zero when the site is not ready.

Example:
  seoward readiness example-prod`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		verdict, err := eng.GetReadiness(cmd.Context(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		if verdict.Ready {
			fmt.Printf("\n%s %s\n\n", green("✓"), verdict.Message)
			return
		}

		fmt.Printf("\n%s Not ready\n\n", red("✗"))
		for _, blocker := range verdict.Blockers {
			fmt.Printf("  %s %s\n", red("•"), blocker)
		}
		fmt.Printf("\n  %s\n\n", verdict.Message)
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(readinessCmd)
}
