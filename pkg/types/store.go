package types

import "context"

// Store defines the data access operations over prompts, blocks, tags, and
// their associations. Every mutating operation is a single transaction:
// either all of its statements commit or none do.
type Store interface {
	// Attach opens the database described by config and creates the schema
	// if it is absent. Returns ErrAlreadyAttached if already attached.
	Attach(config Config) error

	// Detach releases the database. Idempotent. After Detach, operations
	// return ErrStoreDetached.
	Detach() error

	// ListPrompts returns every prompt, most recently updated first.
	ListPrompts(ctx context.Context) ([]Prompt, error)

	// GetPrompt returns a prompt with its blocks and tags.
	// Returns ErrNotFound if no prompt has that ID.
	GetPrompt(ctx context.Context, id string) (*PromptDetail, error)

	// CreatePrompt inserts a prompt with its blocks and tag links and
	// returns the generated ID.
	CreatePrompt(ctx context.Context, in CreatePromptInput) (string, error)

	// UpdatePrompt overwrites the fields present in the input. Blocks and
	// tag links, when present, are replaced as whole sets.
	UpdatePrompt(ctx context.Context, id string, in UpdatePromptInput) error

	// DeletePrompt removes a prompt together with its blocks and tag links.
	DeletePrompt(ctx context.Context, id string) error

	// ListTags returns every tag ordered by name.
	ListTags(ctx context.Context) ([]Tag, error)

	// CreateTag inserts a tag and returns its ID.
	// Returns ErrDuplicateName if the name is taken.
	CreateTag(ctx context.Context, name string) (int64, error)

	// DeleteTag removes a tag and its links. Prompts are not touched.
	DeleteTag(ctx context.Context, id int64) error

	// ExportAll returns a snapshot of the whole store.
	ExportAll(ctx context.Context) (*Snapshot, error)

	// ImportAll replaces all stored data with the snapshot, preserving ids
	// and timestamps. On failure the previous data is left intact.
	ImportAll(ctx context.Context, s *Snapshot) (*ImportStats, error)

	// BackupDatabase writes a copy of the database next to it and returns
	// the copy's path.
	BackupDatabase(ctx context.Context) (string, error)

	// GroupByCluster groups prompts by cluster label.
	GroupByCluster(ctx context.Context) (*Groups, error)

	// GroupByTag groups prompts by tag name.
	GroupByTag(ctx context.Context) (*Groups, error)

	// ExportForClustering flattens every prompt into clustering input.
	ExportForClustering(ctx context.Context) ([]ClusterItem, error)

	// ApplyClusterUpdates writes cluster assignments and returns how many
	// prompts matched. Updates naming unknown prompts are skipped.
	ApplyClusterUpdates(ctx context.Context, updates []ClusterUpdate) (int, error)
}
