package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/promptkeeper/internal/archive"
	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output     string
		formatName string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every prompt and tag to a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := archive.FormatJSON
			switch {
			case formatName != "":
				f, err := archive.ParseFormat(formatName)
				if err != nil {
					return userError(err)
				}
				format = f
			case output != "":
				format = archive.FormatFromPath(output)
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				snap, err := store.ExportAll(ctx)
				if err != nil {
					return storeError(err)
				}
				doc := types.NewExportDocument(snap)

				if output == "" {
					if err := archive.Encode(cmd.OutOrStdout(), doc, format); err != nil {
						return &exitError{code: exitSysError, err: err}
					}
					return nil
				}
				if err := archive.Write(output, doc, format); err != nil {
					return &exitError{code: exitSysError, err: err}
				}
				a.log.Info().Str("path", output).Str("format", string(format)).Msg("exported data")
				printSuccess(cmd.OutOrStdout(), "Exported %d prompt(s) and %d tag(s) to %s",
					len(doc.Prompts), len(doc.Tags), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&formatName, "format", "", "json or yaml (default: from file extension, else json)")
	return cmd
}

// importSummary is the --json output of the import command.
type importSummary struct {
	Imported   *types.ImportStats `json:"imported"`
	BackupPath *string            `json:"backupPath"`
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a snapshot file, backing up the database first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := archive.Read(args[0])
			if err != nil {
				if errors.Is(err, types.ErrInvalidSnapshot) || errors.Is(err, fs.ErrNotExist) {
					return userError(err)
				}
				return &exitError{code: exitSysError, err: err}
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				var backupPath *string
				if path, err := store.BackupDatabase(ctx); err != nil {
					a.log.Warn().Err(err).Msg("backup before import failed, continuing")
					printWarning(cmd.ErrOrStderr(), "Backup failed, importing anyway: %v", err)
				} else {
					backupPath = &path
				}

				stats, err := store.ImportAll(ctx, &doc.Snapshot)
				if err != nil {
					return storeError(fmt.Errorf("import %s: %w", args[0], err))
				}
				a.log.Info().Int("prompts", stats.Prompts).Int("tags", stats.Tags).Msg("imported data")

				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), importSummary{Imported: stats, BackupPath: backupPath})
				}
				if backupPath != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", *backupPath)
				}
				printSuccess(cmd.OutOrStdout(), "Imported %d prompt(s), %d block(s), %d tag(s), %d link(s)",
					stats.Prompts, stats.Blocks, stats.Tags, stats.Links)
				return nil
			})
		},
	}
}

func newBackupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the database to a timestamped file next to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				path, err := store.BackupDatabase(ctx)
				if err != nil {
					return storeError(err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"backupPath": path})
				}
				printSuccess(cmd.OutOrStdout(), "Backup written to %s", path)
				return nil
			})
		},
	}
}
