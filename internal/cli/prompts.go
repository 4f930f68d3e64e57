package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

func newPromptsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prompts",
		Aliases: []string{"prompt"},
		Short:   "List, show, and delete prompts",
	}
	cmd.AddCommand(
		newPromptsListCmd(a),
		newPromptsShowCmd(a),
		newPromptsDeleteCmd(a),
	)
	return cmd
}

func newPromptsListCmd(a *app) *cobra.Command {
	var groupBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var group func(types.Store, context.Context) (*types.Groups, error)
			switch groupBy {
			case "":
			case "cluster":
				group = types.Store.GroupByCluster
			case "tag":
				group = types.Store.GroupByTag
			default:
				return userError(fmt.Errorf("--group-by must be cluster or tag, got %q", groupBy))
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				out := cmd.OutOrStdout()
				if group != nil {
					groups, err := group(store, ctx)
					if err != nil {
						return storeError(err)
					}
					if a.flags.jsonMode {
						return printJSON(out, groups)
					}
					printGroups(out, groups)
					return nil
				}

				prompts, err := store.ListPrompts(ctx)
				if err != nil {
					return storeError(err)
				}
				if a.flags.jsonMode {
					return printJSON(out, prompts)
				}
				printPromptTable(out, prompts)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&groupBy, "group-by", "", "group prompts by cluster or tag")
	return cmd
}

func newPromptsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a prompt with its blocks and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				p, err := store.GetPrompt(ctx, args[0])
				if err != nil {
					return storeError(fmt.Errorf("prompt %s: %w", args[0], err))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), p)
				}
				printPromptDetail(cmd.OutOrStdout(), p)
				return nil
			})
		},
	}
}

func newPromptsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt with its blocks and tag links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, store types.Store) error {
				if err := store.DeletePrompt(ctx, args[0]); err != nil {
					return storeError(fmt.Errorf("prompt %s: %w", args[0], err))
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
				}
				printSuccess(cmd.OutOrStdout(), "Deleted prompt %s", args[0])
				return nil
			})
		},
	}
}

func printPromptTable(w io.Writer, prompts []types.Prompt) {
	if len(prompts) == 0 {
		fmt.Fprintln(w, "No prompts found.")
		return
	}
	rows := make([][]string, 0, len(prompts))
	for _, p := range prompts {
		rows = append(rows, []string{
			p.ID,
			truncate(p.Title, 40),
			deref(p.ClusterGroup),
			formatUnix(p.UpdatedAt),
		})
	}
	printTable(w, []string{"ID", "TITLE", "CLUSTER", "UPDATED"}, rows)
	fmt.Fprintf(w, "Total: %d prompt(s)\n", len(prompts))
}

func printGroups(w io.Writer, groups *types.Groups) {
	if groups.Len() == 0 {
		fmt.Fprintln(w, "No prompts found.")
		return
	}
	for i, label := range groups.Labels() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		members, _ := groups.Get(label)
		headerColor.Fprintf(w, "%s (%d)\n", label, len(members))
		for _, p := range members {
			fmt.Fprintf(w, "  %s  %s\n", p.ID, truncate(p.Title, 60))
		}
	}
}

func printPromptDetail(w io.Writer, p *types.PromptDetail) {
	headerColor.Fprintln(w, p.Title)
	fmt.Fprintf(w, "ID:       %s\n", p.ID)
	if d := deref(p.Description); d != "" {
		fmt.Fprintf(w, "About:    %s\n", d)
	}
	if c := deref(p.ClusterGroup); c != "" {
		fmt.Fprintf(w, "Cluster:  %s\n", c)
	}
	if len(p.Tags) > 0 {
		names := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			names[i] = t.Name
		}
		fmt.Fprintf(w, "Tags:     %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "Created:  %s\n", formatUnix(p.CreatedAt))
	fmt.Fprintf(w, "Updated:  %s\n", formatUnix(p.UpdatedAt))

	for i, b := range p.Blocks {
		fmt.Fprintln(w)
		headerColor.Fprintf(w, "[%d] %s\n", i+1, b.Type)
		if b.Type == types.BlockTypeCode {
			fmt.Fprintln(w, "```")
			fmt.Fprintln(w, b.Content)
			fmt.Fprintln(w, "```")
			continue
		}
		fmt.Fprintln(w, b.Content)
	}
}
