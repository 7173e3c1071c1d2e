package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Shared snapshot cache helpers",
	}

	cmd.AddCommand(newCacheClearCmd(d))
	return cmd
}

// newCacheClearCmd remove o snapshot do Redis; a próxima recarga agendada vai ao warehouse.
func newCacheClearCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop the cached snapshot so the next refresh reads the warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := d.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, closeStore, err := d.openSnapshotStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Invalidate(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Snapshot cache cleared")
			return nil
		},
	}
}
