// Package types defines the Store interface, entity types, ordered groupings,
// and standard errors for the promptkeeper storage system.
//
// Prompts own an ordered list of blocks and a set of tag associations. Tags
// are managed independently. Cluster labels are assigned externally and
// written back through the clustering sync operations on Store.
package types
