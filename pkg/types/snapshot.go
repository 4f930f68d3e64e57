package types

import "time"

// SnapshotVersion is the format marker written into export documents.
const SnapshotVersion = "1.0.0"

// Snapshot is the full relational graph: every prompt with its blocks and
// tags, and every tag.
type Snapshot struct {
	Prompts []PromptDetail `json:"prompts" yaml:"prompts"`
	Tags    []Tag          `json:"tags" yaml:"tags"`
}

// Validate checks the shape of a snapshot before it replaces stored data.
// Referential problems (a link to a tag not in Tags, duplicate ids) are
// caught by the store's constraints during import.
func (s *Snapshot) Validate() error {
	if s == nil {
		return ErrInvalidSnapshot
	}
	for _, tag := range s.Tags {
		if tag.ID <= 0 || tag.Name == "" {
			return ErrInvalidSnapshot
		}
	}
	for _, p := range s.Prompts {
		if p.ID == "" || p.Title == "" {
			return ErrInvalidSnapshot
		}
		for _, b := range p.Blocks {
			if b.ID == "" {
				return ErrInvalidSnapshot
			}
			if _, err := b.Type.Normalize(); err != nil {
				return ErrInvalidSnapshot
			}
		}
	}
	return nil
}

// ExportDocument wraps a snapshot with the export time and format version.
type ExportDocument struct {
	Snapshot   `yaml:",inline"`
	ExportedAt time.Time `json:"exportedAt" yaml:"exportedAt"`
	Version    string    `json:"version" yaml:"version"`
}

// NewExportDocument stamps a snapshot with the current UTC time and
// SnapshotVersion.
func NewExportDocument(s *Snapshot) *ExportDocument {
	return &ExportDocument{
		Snapshot:   *s,
		ExportedAt: time.Now().UTC(),
		Version:    SnapshotVersion,
	}
}

// ImportStats counts the rows written by Store.ImportAll.
type ImportStats struct {
	Prompts int `json:"prompts"`
	Blocks  int `json:"blocks"`
	Tags    int `json:"tags"`
	Links   int `json:"links"`
}
