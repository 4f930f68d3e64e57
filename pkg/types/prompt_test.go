package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestBlockTypeNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      BlockType
		want    BlockType
		wantErr error
	}{
		{name: "empty defaults to text", in: "", want: BlockTypeText},
		{name: "text", in: BlockTypeText, want: BlockTypeText},
		{name: "code", in: BlockTypeCode, want: BlockTypeCode},
		{name: "unknown rejected", in: "image", wantErr: ErrInvalidBlockType},
		{name: "case sensitive", in: "Code", wantErr: ErrInvalidBlockType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Normalize()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreatePromptInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      CreatePromptInput
		wantErr error
	}{
		{name: "title only", in: CreatePromptInput{Title: "A"}},
		{name: "empty title", in: CreatePromptInput{Title: ""}, wantErr: ErrInvalidTitle},
		{name: "whitespace title", in: CreatePromptInput{Title: "  \t"}, wantErr: ErrInvalidTitle},
		{
			name: "bad block type",
			in: CreatePromptInput{
				Title:  "A",
				Blocks: []BlockInput{{Content: "x"}, {Type: "video", Content: "y"}},
			},
			wantErr: ErrInvalidBlockType,
		},
		{
			name: "mixed valid blocks",
			in: CreatePromptInput{
				Title:  "A",
				Blocks: []BlockInput{{Content: "x"}, {Type: BlockTypeCode, Content: "y"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdatePromptInput(t *testing.T) {
	t.Run("zero value is empty and valid", func(t *testing.T) {
		var in UpdatePromptInput
		assert.True(t, in.IsEmpty())
		assert.NoError(t, in.Validate())
	})

	t.Run("empty block list is present", func(t *testing.T) {
		in := UpdatePromptInput{Blocks: &[]BlockInput{}}
		assert.False(t, in.IsEmpty())
		assert.NoError(t, in.Validate())
	})

	t.Run("empty description is present", func(t *testing.T) {
		in := UpdatePromptInput{Description: ptr("")}
		assert.False(t, in.IsEmpty())
		assert.NoError(t, in.Validate())
	})

	t.Run("present empty title rejected", func(t *testing.T) {
		in := UpdatePromptInput{Title: ptr("")}
		assert.ErrorIs(t, in.Validate(), ErrInvalidTitle)
	})

	t.Run("bad block type rejected", func(t *testing.T) {
		in := UpdatePromptInput{Blocks: &[]BlockInput{{Type: "gif"}}}
		assert.ErrorIs(t, in.Validate(), ErrInvalidBlockType)
	})
}
