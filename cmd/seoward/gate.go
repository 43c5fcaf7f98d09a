package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/seoward/seoward/internal/authority"
	"github.com/seoward/seoward/internal/types"
	"github.com/spf13/cobra"
)

var (
	gateClass  string
	gateAction string
	gatePath   string
	gateActor  string
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Authority gate commands",
}

var gateCheckCmd = &cobra.Command{
	Use:   "check <site-id>",
	Short: "Ask the authority gate whether an action may proceed",
	Long: `Run an action request through the authority gate and report the
decision. Every check, allowed or denied, is recorded in the decision
ledger.

Action classes:
  A  safe for autonomous execution
  B  requires a human actor (--actor)
  C  always forbidden

Examples:
  seoward gate check example-prod --class A --action meta_update --path /products
  seoward gate check example-prod --class B --action redirect_create --path /old --actor alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req := &authority.Request{
			SiteID:     args[0],
			Class:      types.ActionClass(gateClass),
			ActionType: gateAction,
			Payload:    map[string]interface{}{"path": gatePath},
		}
		if gateActor != "" {
			req.Actor = &gateActor
		}

		allowed := eng.CanPerform(cmd.Context(), req)

		// The ledger holds the recorded reason for this exact call.
		entries, err := store.ListDecisions(cmd.Context(), types.DecisionFilter{
			SiteID: args[0],
			Limit:  1,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read decision ledger: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		if allowed {
			fmt.Printf("\n%s ALLOWED\n", green("✓"))
		} else {
			fmt.Printf("\n%s DENIED\n", red("✗"))
		}
		if len(entries) > 0 {
			fmt.Printf("  Reason:   %s\n", entries[0].Reason)
			fmt.Printf("  Decision: %s\n", entries[0].ID)
		}
		fmt.Println()

		if !allowed {
			os.Exit(1)
		}
	},
}

func init() {
	gateCheckCmd.Flags().StringVar(&gateClass, "class", "A", "Action class (A, B, or C)")
	gateCheckCmd.Flags().StringVar(&gateAction, "action", "", "Action type (e.g. meta_update)")
	gateCheckCmd.Flags().StringVar(&gatePath, "path", "", "Target page path")
	gateCheckCmd.Flags().StringVar(&gateActor, "actor", "", "Human actor requesting the action")
	_ = gateCheckCmd.MarkFlagRequired("action")
	gateCmd.AddCommand(gateCheckCmd)
	rootCmd.AddCommand(gateCmd)
}
