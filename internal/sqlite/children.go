// This file holds the helpers that read and write a prompt's children: its
// ordered blocks and its tag links. They run on a querier so callers can
// compose them inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// insertBlocks inserts blocks for promptID with sort_order equal to each
// block's position. When keepIDs is set a non-empty BlockInput.ID is used as
// the block's primary key; otherwise every block gets a fresh ID.
func insertBlocks(ctx context.Context, q querier, promptID string, blocks []types.BlockInput, keepIDs bool) error {
	for i, in := range blocks {
		bt, err := in.Type.Normalize()
		if err != nil {
			return err
		}
		id := in.ID
		if !keepIDs || id == "" {
			id = generateUUID()
		}
		_, err = q.ExecContext(ctx,
			"INSERT INTO prompt_blocks (id, prompt_id, type, content, sort_order, meta_json) VALUES (?, ?, ?, ?, ?, ?)",
			id, promptID, string(bt), in.Content, i, nullable(in.MetaJSON),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("block %s: %w", id, types.ErrInvalidData)
			}
			return fmt.Errorf("inserting block: %w", err)
		}
	}
	return nil
}

// replaceBlocks deletes every block of promptID and inserts blocks in their
// place, keeping caller-supplied block IDs.
func replaceBlocks(ctx context.Context, q querier, promptID string, blocks []types.BlockInput) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM prompt_blocks WHERE prompt_id = ?", promptID); err != nil {
		return fmt.Errorf("deleting blocks: %w", err)
	}
	return insertBlocks(ctx, q, promptID, blocks, true)
}

// insertLinks links promptID to each tag. Repeated tag IDs collapse to one
// link; a tag that does not exist fails with ErrUnknownTag.
func insertLinks(ctx context.Context, q querier, promptID string, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		_, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)",
			promptID, tagID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("tag %d: %w", tagID, types.ErrUnknownTag)
			}
			return fmt.Errorf("linking tag %d: %w", tagID, err)
		}
	}
	return nil
}

// replaceLinks replaces the tag set of promptID.
func replaceLinks(ctx context.Context, q querier, promptID string, tagIDs []int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM prompt_tags WHERE prompt_id = ?", promptID); err != nil {
		return fmt.Errorf("deleting tag links: %w", err)
	}
	return insertLinks(ctx, q, promptID, tagIDs)
}

// loadBlocks returns the blocks of promptID by sort order.
func loadBlocks(ctx context.Context, q querier, promptID string) ([]types.Block, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, prompt_id, type, content, sort_order, meta_json FROM prompt_blocks WHERE prompt_id = ? ORDER BY sort_order, rowid",
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading blocks for prompt %s: %w", promptID, err)
	}
	defer rows.Close()

	blocks := []types.Block{}
	for rows.Next() {
		var (
			blk  types.Block
			bt   sql.NullString
			meta sql.NullString
		)
		if err := rows.Scan(&blk.ID, &blk.PromptID, &bt, &blk.Content, &blk.SortOrder, &meta); err != nil {
			return nil, fmt.Errorf("scanning block: %w", err)
		}
		blk.Type = types.BlockTypeText
		if bt.Valid && bt.String != "" {
			blk.Type = types.BlockType(bt.String)
		}
		blk.MetaJSON = stringPtr(meta)
		blocks = append(blocks, blk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading blocks for prompt %s: %w", promptID, err)
	}
	return blocks, nil
}

// loadPromptTags returns the tags linked to promptID ordered by name.
func loadPromptTags(ctx context.Context, q querier, promptID string) ([]types.Tag, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT t.id, t.name FROM tags t
		 JOIN prompt_tags pt ON pt.tag_id = t.id
		 WHERE pt.prompt_id = ?
		 ORDER BY t.name`,
		promptID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading tags for prompt %s: %w", promptID, err)
	}
	defer rows.Close()
	return scanTags(rows)
}

// scanTags drains rows of (id, name) pairs.
func scanTags(rows *sql.Rows) ([]types.Tag, error) {
	tags := []types.Tag{}
	for rows.Next() {
		var t types.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
