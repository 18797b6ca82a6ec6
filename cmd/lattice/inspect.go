package main

import (
	"fmt"

	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [snapshot.json]",
	Short: "Summarize a canvas in the terminal",
	Long:  `Prints the nodes by role, edge statuses, canvas settings and any invalid edges.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, usesStore(cmd))
		if err != nil {
			return err
		}
		defer a.Close()

		snap, name, err := readCanvas(cmd.Context(), cmd, a, args)
		if err != nil {
			return err
		}

		render := tui.NewRenderer()
		out, err := render(tui.Summary(name, snap))
		if err != nil {
			return fmt.Errorf("render summary: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addInputFlags(inspectCmd)
}
