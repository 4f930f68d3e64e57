package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "invalid title", err: ErrInvalidTitle, want: KindValidation},
		{name: "wrapped unknown tag", err: fmt.Errorf("inserting link: %w", ErrUnknownTag), want: KindValidation},
		{name: "invalid snapshot", err: ErrInvalidSnapshot, want: KindValidation},
		{name: "reserved name", err: ErrReservedName, want: KindValidation},
		{name: "not found", err: ErrNotFound, want: KindNotFound},
		{name: "wrapped not found", err: fmt.Errorf("prompt p1: %w", ErrNotFound), want: KindNotFound},
		{name: "duplicate name", err: ErrDuplicateName, want: KindConflict},
		{name: "backup unavailable", err: ErrBackupUnavailable, want: KindBackupUnavailable},
		{name: "anything else", err: errors.New("disk I/O error"), want: KindStorage},
		{name: "detached", err: ErrStoreDetached, want: KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "storage", KindStorage.String())
}
