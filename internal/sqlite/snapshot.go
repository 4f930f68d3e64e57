// This file implements full-store export and import. Import replaces the
// whole relational graph in one transaction, keeping ids and timestamps.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// ExportAll reads every prompt with its blocks and tags, plus every tag,
// inside one read transaction.
func (b *Backend) ExportAll(ctx context.Context) (*types.Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := &types.Snapshot{}
	err := b.withReadTx(ctx, func(tx *sql.Tx) error {
		prompts, err := listPrompts(ctx, tx)
		if err != nil {
			return err
		}
		snap.Prompts = make([]types.PromptDetail, 0, len(prompts))
		for _, p := range prompts {
			blocks, err := loadBlocks(ctx, tx, p.ID)
			if err != nil {
				return err
			}
			tags, err := loadPromptTags(ctx, tx, p.ID)
			if err != nil {
				return err
			}
			snap.Prompts = append(snap.Prompts, types.PromptDetail{Prompt: p, Blocks: blocks, Tags: tags})
		}
		snap.Tags, err = listTags(ctx, tx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("exporting store: %w", err)
	}
	return snap, nil
}

// ImportAll deletes all stored rows and writes the snapshot in their place.
// Nothing changes unless every row is written.
func (b *Backend) ImportAll(ctx context.Context, s *types.Snapshot) (*types.ImportStats, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := &types.ImportStats{}
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range tableNames {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		for _, t := range s.Tags {
			_, err := tx.ExecContext(ctx, "INSERT INTO tags (id, name) VALUES (?, ?)", t.ID, t.Name)
			if err != nil {
				return importError(fmt.Sprintf("tag %d", t.ID), err)
			}
			stats.Tags++
		}

		for _, p := range s.Prompts {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO prompts (id, title, description, cluster_group, cluster_keywords, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, COALESCE(NULLIF(?, 0), unixepoch()), COALESCE(NULLIF(?, 0), unixepoch()))`,
				p.ID, p.Title, nullable(p.Description), nullable(p.ClusterGroup), nullable(p.ClusterKeywords),
				p.CreatedAt, p.UpdatedAt,
			)
			if err != nil {
				return importError("prompt "+p.ID, err)
			}
			stats.Prompts++

			for _, blk := range p.Blocks {
				bt, _ := blk.Type.Normalize()
				_, err := tx.ExecContext(ctx,
					"INSERT INTO prompt_blocks (id, prompt_id, type, content, sort_order, meta_json) VALUES (?, ?, ?, ?, ?, ?)",
					blk.ID, p.ID, string(bt), blk.Content, blk.SortOrder, nullable(blk.MetaJSON),
				)
				if err != nil {
					return importError("block "+blk.ID, err)
				}
				stats.Blocks++
			}
		}

		// Links go last so every tag they reference is already present.
		for _, p := range s.Prompts {
			for _, t := range p.Tags {
				_, err := tx.ExecContext(ctx,
					"INSERT INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)", p.ID, t.ID)
				if err != nil {
					return importError(fmt.Sprintf("link %s -> %d", p.ID, t.ID), err)
				}
				stats.Links++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// importError reports constraint failures as ErrInvalidSnapshot and wraps
// everything else as a storage error.
func importError(what string, err error) error {
	if classifyConstraint(err) != constraintNone {
		return fmt.Errorf("%w: %s: %v", types.ErrInvalidSnapshot, what, err)
	}
	return fmt.Errorf("importing %s: %w", what, err)
}
