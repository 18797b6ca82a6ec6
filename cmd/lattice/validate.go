package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/spf13/cobra"
)

var errInvalidCanvas = errors.New("canvas has invalid edges")

var validateCmd = &cobra.Command{
	Use:   "validate [snapshot.json]",
	Short: "Check the canvas edges against the connection matrix",
	Long: `Reports edges that point at missing nodes or connect types the matrix
does not allow. With --source and --target only that type pair is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		target, _ := cmd.Flags().GetString("target")

		a, err := newApp(cmd, usesStore(cmd))
		if err != nil {
			return err
		}
		defer a.Close()
		out := cmd.OutOrStdout()

		if source != "" || target != "" {
			src, err := domain.ParseNodeType(source)
			if err != nil {
				return err
			}
			dst, err := domain.ParseNodeType(target)
			if err != nil {
				return err
			}
			if !a.engine.IsValidConnection(src, dst) {
				return fmt.Errorf("%s -> %s: %w", src, dst, domain.ErrInvalidConnection)
			}
			fmt.Fprintf(out, "%s -> %s is allowed\n", src, dst)
			return nil
		}

		snap, _, err := readCanvas(cmd.Context(), cmd, a, args)
		if err != nil {
			return err
		}
		violations := a.engine.Audit(snap.Graph())
		if len(violations) == 0 {
			fmt.Fprintln(out, "Canvas is valid! ✅")
			return nil
		}
		for _, v := range violations {
			fmt.Fprintf(out, "  %s (%s -> %s): %s\n", v.Edge.ID, v.Edge.Source, v.Edge.Target, v.Reason)
		}
		return fmt.Errorf("%d violation(s): %w", len(violations), errInvalidCanvas)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addInputFlags(validateCmd)
	validateCmd.Flags().String("source", "", "Source node type to check")
	validateCmd.Flags().String("target", "", "Target node type to check")
}
