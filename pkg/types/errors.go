package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Validation errors. The caller supplied bad input; nothing was written.
var (
	ErrInvalidID        = errors.New("invalid entity ID")
	ErrInvalidData      = errors.New("invalid entity data")
	ErrInvalidTitle     = errors.New("title is required")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidBlockType = errors.New("block type must be text or code")
	ErrUnknownTag       = errors.New("tag does not exist")
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrReservedName     = errors.New("name is reserved for a grouping label")
)

// Lookup and constraint errors.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicateName     = errors.New("name already exists")
	ErrBackupUnavailable = errors.New("database file does not exist")
)

// Kind is the category of a store error, used by callers to pick a response
// without matching on individual sentinels.
type Kind int

// Error kinds. KindStorage covers every error that is not one of the others.
const (
	KindNone Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindBackupUnavailable
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBackupUnavailable:
		return "backup_unavailable"
	default:
		return "storage"
	}
}

var validationErrors = []error{
	ErrInvalidID,
	ErrInvalidData,
	ErrInvalidTitle,
	ErrInvalidName,
	ErrInvalidBlockType,
	ErrUnknownTag,
	ErrInvalidSnapshot,
	ErrReservedName,
	ErrDatabasePathEmpty,
}

// KindOf classifies err. A nil error is KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return KindValidation
		}
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateName):
		return KindConflict
	case errors.Is(err, ErrBackupUnavailable):
		return KindBackupUnavailable
	default:
		return KindStorage
	}
}
