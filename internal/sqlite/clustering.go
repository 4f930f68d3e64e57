// This file implements the two halves of clustering sync: flattening prompts
// for an external clustering job and writing its assignments back.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// blockSeparator joins block contents in clustering input.
const blockSeparator = "\n\n"

// ExportForClustering returns one item per prompt in ListPrompts order, its
// content being the block contents in sort order joined by a blank line.
func (b *Backend) ExportForClustering(ctx context.Context) ([]types.ClusterItem, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var items []types.ClusterItem
	err := b.withReadTx(ctx, func(tx *sql.Tx) error {
		prompts, err := listPrompts(ctx, tx)
		if err != nil {
			return err
		}
		items = make([]types.ClusterItem, 0, len(prompts))
		for _, p := range prompts {
			blocks, err := loadBlocks(ctx, tx, p.ID)
			if err != nil {
				return err
			}
			parts := make([]string, len(blocks))
			for i, blk := range blocks {
				parts[i] = blk.Content
			}
			items = append(items, types.ClusterItem{
				ID:      p.ID,
				Title:   p.Title,
				Content: strings.Join(parts, blockSeparator),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("exporting for clustering: %w", err)
	}
	return items, nil
}

// ApplyClusterUpdates writes every assignment in one transaction and returns
// the number of prompts matched. Updates for unknown prompt ids match nothing
// and are skipped. The batch is rejected before any write if an item is
// invalid.
func (b *Backend) ApplyClusterUpdates(ctx context.Context, updates []types.ClusterUpdate) (int, error) {
	for i, u := range updates {
		if err := u.Validate(); err != nil {
			return 0, fmt.Errorf("update %d: %w: %w", i, types.ErrInvalidData, err)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	matched := 0
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"UPDATE prompts SET cluster_group = ?, cluster_keywords = ?, updated_at = unixepoch() WHERE id = ?")
		if err != nil {
			return fmt.Errorf("preparing cluster update: %w", err)
		}
		defer stmt.Close()

		for _, u := range updates {
			res, err := stmt.ExecContext(ctx, u.ClusterGroup, nullIfEmpty(&u.ClusterKeywords), u.ID)
			if err != nil {
				return fmt.Errorf("updating cluster for prompt %s: %w", u.ID, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("updating cluster for prompt %s: %w", u.ID, err)
			}
			matched += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return matched, nil
}
