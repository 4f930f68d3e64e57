// Package sqlite implements the SQLite storage backend for promptkeeper.
//
// A single *sql.DB is opened on Attach and shared for the life of the
// process. The database runs in WAL mode with foreign keys enforced on every
// pooled connection, so readers proceed while a writer commits. Writers are
// serialized in-process by writeMu; SQLite's busy timeout covers writers in
// other processes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store using SQLite.
type Backend struct {
	mu       sync.RWMutex // guards attached, config, db
	writeMu  sync.Mutex   // serializes write transactions
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens the database at config.DatabasePath, creating parent
// directories and the file as needed, and creates any missing tables and
// indexes. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(config.DatabasePath))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	// sql.Open is lazy; Ping forces the file to be opened or created.
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("opening database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	return nil
}

// Path returns the database path of the attached store, or "" when detached.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return ""
	}
	return b.config.DatabasePath
}

// uriPathEscaper percent-encodes the characters that end or escape the path
// component of an SQLite URI filename.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// dsn builds a modernc.org/sqlite data source name. Pragmas given as
// _pragma parameters are applied to every new connection in the pool, which
// matters for foreign_keys since SQLite tracks it per connection. The driver
// splits the DSN at the first '?', so the path must not contain one.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + uriPathEscaper.Replace(path) + "?" + q.Encode()
}

// reader returns the open database for a read operation.
// The caller must hold b.mu for reading.
func (b *Backend) reader() (*sql.DB, error) {
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// withTx runs fn inside a write transaction. The transaction commits if fn
// returns nil and rolls back otherwise. The caller must hold b.mu for reading.
func (b *Backend) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if !b.attached {
		return types.ErrStoreDetached
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// withReadTx runs fn inside a transaction that is always rolled back, giving
// fn a consistent view across several queries.
func (b *Backend) withReadTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := b.reader()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning read transaction: %w", err)
	}
	defer tx.Rollback()
	return fn(tx)
}

// querier is the subset of *sql.DB and *sql.Tx used by the table helpers.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
