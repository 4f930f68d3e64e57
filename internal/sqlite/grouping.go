package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// GroupByCluster groups prompts by cluster label. Labels appear in the order
// their first prompt appears in ListPrompts; prompts with no cluster go under
// types.UnclusteredLabel.
func (b *Backend) GroupByCluster(ctx context.Context) (*types.Groups, error) {
	prompts, err := b.ListPrompts(ctx)
	if err != nil {
		return nil, err
	}

	groups := types.NewGroups()
	for _, p := range prompts {
		label := types.UnclusteredLabel
		if p.ClusterGroup != nil && *p.ClusterGroup != "" {
			label = *p.ClusterGroup
		}
		groups.Add(label, p)
	}
	return groups, nil
}

// GroupByTag groups prompts by tag name, a prompt appearing once per tag it
// carries. Groups follow tag name order with untagged prompts, collected
// under types.UntaggedLabel, first.
func (b *Backend) GroupByTag(ctx context.Context) (*types.Groups, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.reader()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT p.id, p.title, p.description, p.cluster_group, p.cluster_keywords, p.created_at, p.updated_at, t.name
		 FROM prompts p
		 LEFT JOIN prompt_tags pt ON pt.prompt_id = p.id
		 LEFT JOIN tags t ON t.id = pt.tag_id
		 ORDER BY t.name, p.updated_at DESC, p.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("grouping prompts by tag: %w", err)
	}
	defer rows.Close()

	groups := types.NewGroups()
	for rows.Next() {
		var (
			p                     types.Prompt
			desc, group, keywords sql.NullString
			createdAt, updatedAt  sql.NullInt64
			tagName               sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &desc, &group, &keywords, &createdAt, &updatedAt, &tagName); err != nil {
			return nil, fmt.Errorf("scanning grouped prompt: %w", err)
		}
		p.Description = stringPtr(desc)
		p.ClusterGroup = stringPtr(group)
		p.ClusterKeywords = stringPtr(keywords)
		p.CreatedAt = createdAt.Int64
		p.UpdatedAt = updatedAt.Int64

		label := types.UntaggedLabel
		if tagName.Valid {
			label = tagName.String
		}
		groups.Add(label, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("grouping prompts by tag: %w", err)
	}
	return groups, nil
}
