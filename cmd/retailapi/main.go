package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/retailapi/internal/config"
)

// cfg holds environment defaults; command flags bind onto it.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "retailapi",
	Short: "Items and orders HTTP service",
	Long: `retailapi serves CRUD and listing endpoints for items and orders
backed by a SQLite database.

Settings are read from RETAIL_API_* environment variables and may be
overridden with flags.`,
	SilenceUsage: true,
}

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(newServeCmd(), newTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
