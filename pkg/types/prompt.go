package types

import "strings"

// BlockType distinguishes prose blocks from code blocks.
type BlockType string

// Block types. A block with no type is stored as text.
const (
	BlockTypeText BlockType = "text"
	BlockTypeCode BlockType = "code"
)

// validBlockTypes is the set of recognized block type values.
var validBlockTypes = map[BlockType]bool{
	BlockTypeText: true,
	BlockTypeCode: true,
}

// Normalize returns the stored form of the block type. The empty type
// defaults to text. Returns ErrInvalidBlockType for unrecognized values.
func (bt BlockType) Normalize() (BlockType, error) {
	if bt == "" {
		return BlockTypeText, nil
	}
	if !validBlockTypes[bt] {
		return "", ErrInvalidBlockType
	}
	return bt, nil
}

// Prompt is a titled unit of reusable content. Nullable columns are pointers;
// a nil pointer serializes as JSON null.
type Prompt struct {
	ID              string  `json:"id" yaml:"id"`
	Title           string  `json:"title" yaml:"title"`
	Description     *string `json:"description" yaml:"description"`
	ClusterGroup    *string `json:"cluster_group" yaml:"cluster_group"`
	ClusterKeywords *string `json:"cluster_keywords" yaml:"cluster_keywords"`
	CreatedAt       int64   `json:"created_at" yaml:"created_at"` // Unix seconds, set by the store.
	UpdatedAt       int64   `json:"updated_at" yaml:"updated_at"` // Unix seconds, refreshed on every mutation.
}

// Block is one ordered fragment of a prompt.
type Block struct {
	ID        string    `json:"id" yaml:"id"`
	PromptID  string    `json:"prompt_id" yaml:"prompt_id"`
	Type      BlockType `json:"type" yaml:"type"`
	Content   string    `json:"content" yaml:"content"`
	SortOrder int       `json:"sort_order" yaml:"sort_order"`
	MetaJSON  *string   `json:"meta_json" yaml:"meta_json"` // Opaque to the store.
}

// PromptDetail is a prompt expanded with its blocks (by sort order) and tags.
type PromptDetail struct {
	Prompt `yaml:",inline"`
	Blocks []Block `json:"blocks" yaml:"blocks"`
	Tags   []Tag   `json:"tags" yaml:"tags"`
}

// BlockInput describes a block to insert. SortOrder is never taken from the
// caller; it is the block's position in the submitted list. ID is honored on
// update and ignored on create.
type BlockInput struct {
	ID       string    `json:"id,omitempty"`
	Type     BlockType `json:"type,omitempty"`
	Content  string    `json:"content"`
	MetaJSON *string   `json:"meta_json,omitempty"`
}

// CreatePromptInput holds the fields for Store.CreatePrompt.
type CreatePromptInput struct {
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Blocks      []BlockInput `json:"blocks,omitempty"`
	TagIDs      []int64      `json:"tagIds,omitempty"`
}

// Validate checks the title and block types.
func (in CreatePromptInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrInvalidTitle
	}
	return validateBlocks(in.Blocks)
}

// UpdatePromptInput holds the fields for Store.UpdatePrompt. A nil field is
// left unchanged. A non-nil Blocks or TagIDs replaces the whole child set,
// even when it points at an empty slice.
type UpdatePromptInput struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Blocks      *[]BlockInput `json:"blocks,omitempty"`
	TagIDs      *[]int64      `json:"tagIds,omitempty"`
}

// IsEmpty reports whether no field is present.
func (in UpdatePromptInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.Blocks == nil && in.TagIDs == nil
}

// Validate checks the fields that are present.
func (in UpdatePromptInput) Validate() error {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return ErrInvalidTitle
	}
	if in.Blocks != nil {
		return validateBlocks(*in.Blocks)
	}
	return nil
}

func validateBlocks(blocks []BlockInput) error {
	for _, b := range blocks {
		if _, err := b.Type.Normalize(); err != nil {
			return err
		}
	}
	return nil
}
