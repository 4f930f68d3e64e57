package types

// Tag is a user-defined label. Names are globally unique.
type Tag struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
