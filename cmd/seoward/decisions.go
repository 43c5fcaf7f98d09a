package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/seoward/seoward/internal/types"
	"github.com/spf13/cobra"
)

var (
	decisionsStatus string
	decisionsLimit  int
)

var decisionsCmd = &cobra.Command{
	Use:   "decisions [site-id]",
	Short: "Show the decision ledger",
	Long: `List entries from the append-only decision ledger, newest first.

Examples:
  seoward decisions
  seoward decisions example-prod
  seoward decisions example-prod --status DENIED --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter := types.DecisionFilter{
			Status: types.ActionStatus(decisionsStatus),
			Limit:  decisionsLimit,
		}
		if len(args) > 0 {
			filter.SiteID = args[0]
		}

		entries, err := store.ListDecisions(cmd.Context(), filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list decisions: %v\n", err)
			os.Exit(1)
		}

		if len(entries) == 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Printf("%s No decisions recorded.\n", gray("→"))
			return
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, entry := range entries {
			actor := "system"
			if entry.ActorID != nil {
				actor = *entry.ActorID
			}
			fmt.Printf("%s  %s  [%s] %-14s %s\n",
				gray(entry.CreatedAt.Format("2006-01-02 15:04:05")),
				statusSprint(entry.Status),
				entry.ActionClass, entry.ActionType,
				gray(actor))
			fmt.Printf("    %s\n", entry.Reason)
		}
	},
}

func init() {
	decisionsCmd.Flags().StringVar(&decisionsStatus, "status", "", "Filter by status (ALLOWED or DENIED)")
	decisionsCmd.Flags().IntVar(&decisionsLimit, "limit", 50, "Maximum entries to show")
	rootCmd.AddCommand(decisionsCmd)
}
