package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

func newTagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "List, add, and delete tags",
	}
	cmd.AddCommand(
		newTagsListCmd(a),
		newTagsAddCmd(a),
		newTagsDeleteCmd(a),
	)
	return cmd
}

func newTagsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				tags, err := store.ListTags(ctx)
				if err != nil {
					return storeError(err)
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return printJSON(out, tags)
				}
				if len(tags) == 0 {
					fmt.Fprintln(out, "No tags found.")
					return nil
				}
				rows := make([][]string, len(tags))
				for i, t := range tags {
					rows[i] = []string{strconv.FormatInt(t.ID, 10), t.Name}
				}
				printTable(out, []string{"ID", "NAME"}, rows)
				return nil
			})
		},
	}
}

func newTagsAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				id, err := store.CreateTag(ctx, name)
				if err != nil {
					return storeError(fmt.Errorf("tag %q: %w", name, err))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), types.Tag{ID: id, Name: name})
				}
				printSuccess(cmd.OutOrStdout(), "Created tag %q (id %d)", name, id)
				return nil
			})
		},
	}
}

func newTagsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag and unlink it from every prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return userError(fmt.Errorf("tag id must be a positive integer, got %q", args[0]))
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				if err := store.DeleteTag(ctx, id); err != nil {
					return storeError(fmt.Errorf("tag %d: %w", id, err))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted": id})
				}
				printSuccess(cmd.OutOrStdout(), "Deleted tag %d", id)
				return nil
			})
		},
	}
}
