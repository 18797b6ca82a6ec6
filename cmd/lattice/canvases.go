package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var canvasesCmd = &cobra.Command{
	Use:   "canvases",
	Short: "List the canvases in the configured store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		ids, err := a.sessions.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(canvasesCmd)
}
