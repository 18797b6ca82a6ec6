package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lattice",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lattice version %s (snapshot schema v%d)\n",
			strings.TrimSpace(lattice.Version), domain.CurrentSnapshotVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
