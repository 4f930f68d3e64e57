// This file implements tag CRUD for the SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// ListTags returns every tag ordered by name.
func (b *Backend) ListTags(ctx context.Context) ([]types.Tag, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.reader()
	if err != nil {
		return nil, err
	}
	return listTags(ctx, db)
}

func listTags(ctx context.Context, q querier) ([]types.Tag, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()
	tags, err := scanTags(rows)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// CreateTag inserts a tag and returns its ID. The name is stored as given.
// UntaggedLabel is reserved for prompts without tags.
func (b *Backend) CreateTag(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, types.ErrInvalidName
	}
	if name == types.UntaggedLabel {
		return 0, fmt.Errorf("tag %q: %w", name, types.ErrReservedName)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var id int64
	err := b.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("tag %q: %w", name, types.ErrDuplicateName)
			}
			return fmt.Errorf("inserting tag: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading tag id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteTag removes the tag. Its links go with it through ON DELETE CASCADE;
// the prompts that carried it are left untouched.
func (b *Backend) DeleteTag(ctx context.Context, id int64) error {
	if id <= 0 {
		return types.ErrInvalidID
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting tag %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting tag %d: %w", id, err)
		}
		if n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
}
