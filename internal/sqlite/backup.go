package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// backupTimeLayout is ISO-8601 UTC with milliseconds. The ':' and '.'
// separators are replaced before use so the name is valid on every platform.
const backupTimeLayout = "2006-01-02T15:04:05.000Z"

// BackupDatabase writes a consistent copy of the live database to
// <path>.bak.<timestamp> and returns that path. It returns
// ErrBackupUnavailable when the database file is missing.
func (b *Backend) BackupDatabase(ctx context.Context) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.reader()
	if err != nil {
		return "", err
	}

	src := b.config.DatabasePath
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", types.ErrBackupUnavailable
		}
		return "", fmt.Errorf("checking database file: %w", err)
	}

	dst := backupPath(src, time.Now())
	// VACUUM INTO copies from a single read transaction, so concurrent
	// writers cannot tear the copy.
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dst); err != nil {
		return "", fmt.Errorf("backing up database to %s: %w", dst, err)
	}
	return dst, nil
}

// backupPath returns the backup file name for src taken at t.
func backupPath(src string, t time.Time) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(t.UTC().Format(backupTimeLayout))
	return src + ".bak." + stamp
}
