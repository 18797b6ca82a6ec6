package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice is the graph engine behind a generative design canvas",
	Long: `Lattice keeps canvas graphs consistent: it lays out nodes in columns,
validates connections, traces lineage, grows generation results and migrates
stored snapshots to the current schema.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default: $LATTICE_CONFIG, ./lattice.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
