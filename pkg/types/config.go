package types

import "errors"

// Config holds the parameters for Store.Attach.
type Config struct {
	// DatabasePath is the location of the SQLite database file. Parent
	// directories are created on Attach.
	DatabasePath string `json:"database_path" yaml:"database_path"`
}

// Config validation errors.
var (
	ErrDatabasePathEmpty = errors.New("database path must not be empty")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DatabasePath == "" {
		return ErrDatabasePathEmpty
	}
	return nil
}
