package main

import (
	"context"
	"fmt"
	"os"

	"github.com/seoward/seoward/internal/config"
	"github.com/seoward/seoward/internal/engine"
	"github.com/seoward/seoward/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string

	store storage.Storage
	eng   *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:   "seoward",
	Short: "Health, drift, and authority gating for managed SEO sites",
	Long: `Seoward scores site health across four weighted dimensions, detects
configuration drift, estimates observation confidence, and gates every
mutating action through an authority check backed by an append-only
decision ledger.

Run 'seoward init' once to create the database, then register sites
with 'seoward site add'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "init", "help", "completion", "version":
			return nil
		}

		if dbPath == "" {
			dbPath = storage.DefaultConfig().Path
		}
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("no database at %s (run 'seoward init' first)", dbPath)
		}

		ctx := cmd.Context()
		var err error
		store, err = storage.NewStorage(ctx, &storage.Config{Path: dbPath})
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		settings, err := config.LoadEngineConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		eng, err = engine.New(&engine.Config{Store: store, Settings: settings})
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the seoward database (default .seoward/seoward.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an engine config YAML file")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
