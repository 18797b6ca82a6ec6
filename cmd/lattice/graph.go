package main

import (
	"fmt"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [snapshot.json]",
	Short: "Export the canvas graph visualization",
	Long: `Outputs a Mermaid diagram (graph LR) of the canvas. With --select the
lineage of that node is highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, usesStore(cmd))
		if err != nil {
			return err
		}
		defer a.Close()

		snap, _, err := readCanvas(cmd.Context(), cmd, a, args)
		if err != nil {
			return err
		}

		g := snap.Graph()
		var overlay *graph.GraphOverlay
		if selected, _ := cmd.Flags().GetString("select"); selected != "" {
			overlay = graph.NewOverlay(g, selected)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(g, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addInputFlags(graphCmd)
	graphCmd.Flags().String("select", "", "Highlight the lineage of this node")
}
