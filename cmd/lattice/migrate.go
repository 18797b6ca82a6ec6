package main

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [snapshot.json]",
	Short: "Upgrade a stored snapshot to the current schema",
	Long: `Reads a snapshot envelope of any past schema version and prints the
current-version envelope. Snapshots that cannot be migrated come out as an
empty canvas, exactly as a host would load them.`,
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

		if save, _ := cmd.Flags().GetBool("save"); save && usesStore(cmd) {
			if err := a.sessions.Save(ctx, name, snap); err != nil {
				return err
			}
			a.logger.Info("canvas migrated", "canvas", name, "version", domain.CurrentSnapshotVersion)
		}

		env, err := domain.Seal(snap)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), env)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	addInputFlags(migrateCmd)
	migrateCmd.Flags().Bool("save", false, "Write the migrated canvas back to the store (requires --canvas)")
}
