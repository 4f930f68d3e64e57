// This file implements prompt CRUD for the SQLite backend. A prompt owns its
// blocks and tag links; create and update write all three in one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

const promptColumns = "id, title, description, cluster_group, cluster_keywords, created_at, updated_at"

// ListPrompts returns every prompt, most recently updated first. Ties on
// updated_at fall back to insertion order, newest first.
func (b *Backend) ListPrompts(ctx context.Context) ([]types.Prompt, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.reader()
	if err != nil {
		return nil, err
	}
	return listPrompts(ctx, db)
}

func listPrompts(ctx context.Context, q querier) ([]types.Prompt, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+promptColumns+" FROM prompts ORDER BY updated_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	defer rows.Close()

	prompts := []types.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prompt: %w", err)
		}
		prompts = append(prompts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}
	return prompts, nil
}

// GetPrompt returns a prompt with its blocks in sort order and its tags
// ordered by name.
func (b *Backend) GetPrompt(ctx context.Context, id string) (*types.PromptDetail, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var detail *types.PromptDetail
	err := b.withReadTx(ctx, func(tx *sql.Tx) error {
		var err error
		detail, err = getPrompt(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func getPrompt(ctx context.Context, q querier, id string) (*types.PromptDetail, error) {
	row := q.QueryRowContext(ctx, "SELECT "+promptColumns+" FROM prompts WHERE id = ?", id)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting prompt %s: %w", id, err)
	}

	blocks, err := loadBlocks(ctx, q, id)
	if err != nil {
		return nil, err
	}
	tags, err := loadPromptTags(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &types.PromptDetail{Prompt: *p, Blocks: blocks, Tags: tags}, nil
}

// CreatePrompt inserts the prompt, its blocks in submitted order, and its tag
// links. Returns the generated prompt ID.
func (b *Backend) CreatePrompt(ctx context.Context, in types.CreatePromptInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	id := generateUUID()
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO prompts (id, title, description) VALUES (?, ?, ?)",
			id, in.Title, nullIfEmpty(in.Description),
		)
		if err != nil {
			return fmt.Errorf("inserting prompt: %w", err)
		}
		if err := insertBlocks(ctx, tx, id, in.Blocks, false); err != nil {
			return err
		}
		return insertLinks(ctx, tx, id, in.TagIDs)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdatePrompt overwrites the fields present in the input. A present Blocks
// or TagIDs replaces the whole set. Any present field refreshes updated_at;
// an empty input changes nothing.
func (b *Backend) UpdatePrompt(ctx context.Context, id string, in types.UpdatePromptInput) error {
	if id == "" {
		return types.ErrInvalidID
	}
	if err := in.Validate(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.withTx(ctx, func(tx *sql.Tx) error {
		if err := requirePrompt(ctx, tx, id); err != nil {
			return err
		}
		if in.IsEmpty() {
			return nil
		}

		sets := []string{"updated_at = unixepoch()"}
		var args []any
		if in.Title != nil {
			sets = append(sets, "title = ?")
			args = append(args, *in.Title)
		}
		if in.Description != nil {
			sets = append(sets, "description = ?")
			args = append(args, *in.Description)
		}
		args = append(args, id)

		_, err := tx.ExecContext(ctx,
			"UPDATE prompts SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return fmt.Errorf("updating prompt %s: %w", id, err)
		}

		if in.Blocks != nil {
			if err := replaceBlocks(ctx, tx, id, *in.Blocks); err != nil {
				return err
			}
		}
		if in.TagIDs != nil {
			if err := replaceLinks(ctx, tx, id, *in.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePrompt removes the prompt. Its blocks and tag links go with it
// through ON DELETE CASCADE.
func (b *Backend) DeletePrompt(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM prompts WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting prompt %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting prompt %s: %w", id, err)
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
}

// requirePrompt returns ErrNotFound unless a prompt with id exists.
func requirePrompt(ctx context.Context, q querier, id string) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM prompts WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking prompt %s: %w", id, err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPrompt reads a row selected with promptColumns.
func scanPrompt(row rowScanner) (*types.Prompt, error) {
	var (
		p                     types.Prompt
		desc, group, keywords sql.NullString
		createdAt, updatedAt  sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Title, &desc, &group, &keywords, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Description = stringPtr(desc)
	p.ClusterGroup = stringPtr(group)
	p.ClusterKeywords = stringPtr(keywords)
	p.CreatedAt = createdAt.Int64
	p.UpdatedAt = updatedAt.Int64
	return &p, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// nullIfEmpty maps a nil or empty string to SQL NULL.
func nullIfEmpty(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// nullable maps a nil string pointer to SQL NULL and keeps "" as "".
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
