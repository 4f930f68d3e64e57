package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// newInitCmd creates the "init" subcommand. Loading the configuration writes
// a default config.yaml; attaching the store creates the database and schema.
func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{
						"database_path": a.settings.DatabasePath,
					})
				}
				printSuccess(cmd.OutOrStdout(), "Database initialized at %s", a.settings.DatabasePath)
				return nil
			})
		},
	}
}
