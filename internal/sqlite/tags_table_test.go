package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

func TestCreateTag(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()

	first := mustCreateTag(t, b, "zeta")
	second := mustCreateTag(t, b, "alpha")
	assert.Greater(t, second, first)

	tags, err := b.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Tag{{ID: second, Name: "alpha"}, {ID: first, Name: "zeta"}}, tags)
}

func TestCreateTag_Errors(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	mustCreateTag(t, b, "dup")

	_, err := b.CreateTag(ctx, "dup")
	assert.ErrorIs(t, err, types.ErrDuplicateName)
	assert.Equal(t, types.KindConflict, types.KindOf(err))

	_, err = b.CreateTag(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = b.CreateTag(ctx, types.UntaggedLabel)
	assert.ErrorIs(t, err, types.ErrReservedName)
	assert.Equal(t, types.KindValidation, types.KindOf(err))

	assert.Equal(t, 1, countRows(t, b, "tags"))
}

func TestListTags_Empty(t *testing.T) {
	b := newTestBackend(t)
	tags, err := b.ListTags(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tags)
	assert.Empty(t, tags)
}

func TestDeleteTag_RemovesLinksOnly(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	doomed := mustCreateTag(t, b, "doomed")
	kept := mustCreateTag(t, b, "kept")
	id := mustCreatePrompt(t, b, types.CreatePromptInput{
		Title:  "tagged",
		TagIDs: []int64{doomed, kept},
	})

	require.NoError(t, b.DeleteTag(ctx, doomed))

	got, err := b.GetPrompt(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []types.Tag{{ID: kept, Name: "kept"}}, got.Tags)
	assert.Equal(t, 1, countRows(t, b, "prompts"))

	assert.ErrorIs(t, b.DeleteTag(ctx, doomed), types.ErrNotFound)
	assert.ErrorIs(t, b.DeleteTag(ctx, 0), types.ErrInvalidID)
}
