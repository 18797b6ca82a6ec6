package main

import (
	"fmt"
	"os"

	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var lineageCmd = &cobra.Command{
	Use:   "lineage <node-id> [snapshot.json]",
	Short: "List the nodes and edges connected to a node",
	Long:  `Walks edges in both directions from the node and prints every node and edge reached.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, usesStore(cmd))
		if err != nil {
			return err
		}
		defer a.Close()

		snap, _, err := readCanvas(cmd.Context(), cmd, a, args[1:])
		if err != nil {
			return err
		}

		res := a.engine.Lineage(snap.Graph(), args[0])
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), res)
		}
		if res.Empty() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no connections\n", args[0])
			return nil
		}
		out := cmd.OutOrStdout()
		color := out == os.Stdout && tui.IsTerminal(os.Stdout)
		fmt.Fprintln(out, "Nodes:")
		for _, id := range res.Nodes() {
			if color {
				id = tui.Highlight(id, id == args[0], true)
			}
			fmt.Fprintf(out, "  %s\n", id)
		}
		fmt.Fprintln(out, "Edges:")
		for _, id := range res.Edges() {
			fmt.Fprintf(out, "  %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lineageCmd)
	addInputFlags(lineageCmd)
	lineageCmd.Flags().Bool("json", false, "Print the result as JSON")
}
