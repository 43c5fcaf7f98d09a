package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/seoward/seoward/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a seoward database in the current directory",
	Long: `Initialize a seoward database by creating a .seoward/ directory with
a SQLite database.

This creates:
  - .seoward/ directory
  - .seoward/seoward.db (SQLite database)

Example:
  cd ~/ops
  seoward init
  seoward init --db /var/lib/seoward/seoward.db`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := dbPath
		if path == "" {
			path = storage.DefaultConfig().Path
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create directory: %v\n", err)
			os.Exit(1)
		}

		// Opening the database applies the schema.
		ctx := context.Background()
		db, err := storage.NewStorage(ctx, &storage.Config{Path: path})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize database: %v\n", err)
			os.Exit(1)
		}
		_ = db.Close()

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Initialized seoward database\n\n", green("✓"))
		fmt.Printf("  Database: %s\n", cyan(path))
		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  1. Register a site:    seoward site add example.com\n")
		fmt.Printf("  2. Check its health:   seoward health <site-id>\n")
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
