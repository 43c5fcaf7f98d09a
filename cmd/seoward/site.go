package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/seoward/seoward/internal/types"
	"github.com/spf13/cobra"
)

var (
	siteAddID   string
	siteAddName string
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage registered sites",
}

var siteAddCmd = &cobra.Command{
	Use:   "add <domain>",
	Short: "Register a site for observation",
	Long: `Register a site so crawl runs, pages, and findings can be recorded
against it.

Examples:
  seoward site add example.com
  seoward site add example.com --name "Example Store"
  seoward site add example.com --id example-prod`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		site := &types.Site{
			ID:     siteAddID,
			Domain: args[0],
			Name:   siteAddName,
		}
		if site.ID == "" {
			site.ID = uuid.New().String()
		}
		if err := site.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := store.UpsertSite(cmd.Context(), site); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to save site: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Registered %s\n", green("✓"), cyan(site.Domain))
		fmt.Printf("  ID: %s\n", site.ID)
	},
}

var siteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sites",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sites, err := store.ListSites(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list sites: %v\n", err)
			os.Exit(1)
		}

		if len(sites) == 0 {
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Printf("%s No sites registered. Run 'seoward site add <domain>'.\n", gray("→"))
			return
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		for _, site := range sites {
			name := site.Name
			if name == "" {
				name = "-"
			}
			fmt.Printf("%s  %-30s %s\n", cyan(site.ID), site.Domain, name)
		}
	},
}

func init() {
	siteAddCmd.Flags().StringVar(&siteAddID, "id", "", "Site ID (default: generated UUID)")
	siteAddCmd.Flags().StringVar(&siteAddName, "name", "", "Display name for the site")
	siteCmd.AddCommand(siteAddCmd)
	siteCmd.AddCommand(siteListCmd)
	rootCmd.AddCommand(siteCmd)
}
