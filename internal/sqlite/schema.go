package sqlite

import (
	"database/sql"
	"fmt"
)

// Schema DDL for all tables. Every statement is guarded by IF NOT EXISTS so
// the schema can be applied on every startup.
const (
	createPrompts = `CREATE TABLE IF NOT EXISTS prompts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    cluster_group TEXT,
    cluster_keywords TEXT,
    created_at INTEGER DEFAULT (unixepoch()),
    updated_at INTEGER DEFAULT (unixepoch())
);`

	createPromptBlocks = `CREATE TABLE IF NOT EXISTS prompt_blocks (
    id TEXT PRIMARY KEY,
    prompt_id TEXT NOT NULL,
    type TEXT DEFAULT 'text',
    content TEXT NOT NULL,
    sort_order INTEGER NOT NULL,
    meta_json TEXT,
    FOREIGN KEY (prompt_id) REFERENCES prompts(id) ON DELETE CASCADE
);`

	createTags = `CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL
);`

	createPromptTags = `CREATE TABLE IF NOT EXISTS prompt_tags (
    prompt_id TEXT NOT NULL,
    tag_id INTEGER NOT NULL,
    PRIMARY KEY (prompt_id, tag_id),
    FOREIGN KEY (prompt_id) REFERENCES prompts(id) ON DELETE CASCADE,
    FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
);`
)

// Index DDL for the lookups the data layer performs.
const (
	idxPromptBlocksPrompt = `CREATE INDEX IF NOT EXISTS idx_prompt_blocks_prompt_id ON prompt_blocks(prompt_id);`
	idxPromptTagsPrompt   = `CREATE INDEX IF NOT EXISTS idx_prompt_tags_prompt_id ON prompt_tags(prompt_id);`
	idxPromptsCluster     = `CREATE INDEX IF NOT EXISTS idx_prompts_cluster_group ON prompts(cluster_group);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createPrompts,
	createPromptBlocks,
	createTags,
	createPromptTags,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxPromptBlocksPrompt,
	idxPromptTagsPrompt,
	idxPromptsCluster,
}

// tableNames lists the tables in child-first order, the order in which they
// must be cleared.
var tableNames = []string{"prompt_tags", "prompt_blocks", "prompts", "tags"}

// initSchema applies the schema in a single transaction.
func initSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaDDL {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}

	return tx.Commit()
}
