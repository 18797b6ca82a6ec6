package main

import (
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [snapshot.json]",
	Short: "Lay out a canvas in role columns",
	Long: `Reads a canvas snapshot, assigns every node a column from its role and
the edges feeding it, and prints the snapshot with the new positions.
With --canvas and --save the result is written back to the store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, usesStore(cmd))
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		snap, name, err := readCanvas(ctx, cmd, a, args)
		if err != nil {
			return err
		}

		gap, _ := cmd.Flags().GetFloat64("gap")
		if gap <= 0 {
			gap = snap.LayoutGapPixels
		}
		snap.Nodes = a.engine.Layout(ctx, snap.Nodes, snap.Edges, gap)

		if save, _ := cmd.Flags().GetBool("save"); save && usesStore(cmd) {
			if err := a.sessions.Save(ctx, name, snap); err != nil {
				return err
			}
			a.logger.Info("layout saved", "canvas", name, "nodes", len(snap.Nodes))
		}
		return writeJSON(cmd.OutOrStdout(), snap)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	addInputFlags(layoutCmd)
	layoutCmd.Flags().Float64("gap", 0, "Column gap in pixels (default: the canvas setting)")
	layoutCmd.Flags().Bool("save", false, "Write the result back to the store (requires --canvas)")
}
