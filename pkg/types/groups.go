package types

import (
	"bytes"
	"encoding/json"
)

// Sentinel labels for prompts without a cluster or without tags.
const (
	UnclusteredLabel = "Unclustered"
	UntaggedLabel    = "Untagged"
)

// Groups maps labels to prompts and remembers the order in which labels were
// first added. Iteration and JSON encoding follow that order.
type Groups struct {
	labels []string
	byName map[string][]Prompt
}

// NewGroups returns an empty Groups.
func NewGroups() *Groups {
	return &Groups{byName: make(map[string][]Prompt)}
}

// Add appends p to the group named label, creating the group if needed.
// A prompt already present in the group (by ID) is not added twice.
func (g *Groups) Add(label string, p Prompt) {
	if _, ok := g.byName[label]; !ok {
		g.labels = append(g.labels, label)
	}
	if g.Has(label, p.ID) {
		return
	}
	g.byName[label] = append(g.byName[label], p)
}

// Labels returns the group labels in first-added order.
func (g *Groups) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Get returns the prompts in a group and whether the group exists.
func (g *Groups) Get(label string) ([]Prompt, bool) {
	members, ok := g.byName[label]
	return members, ok
}

// Has reports whether the prompt with the given ID is in the group.
func (g *Groups) Has(label, promptID string) bool {
	for _, m := range g.byName[label] {
		if m.ID == promptID {
			return true
		}
	}
	return false
}

// Len returns the number of groups.
func (g *Groups) Len() int {
	return len(g.labels)
}

// MarshalJSON encodes the groups as a JSON object with keys in first-added
// order.
func (g *Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range g.labels {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(g.byName[label])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
