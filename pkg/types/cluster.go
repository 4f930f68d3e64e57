package types

// ClusterItem is the flattened form of a prompt handed to the external
// clustering job. Content joins the block contents in sort order.
type ClusterItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ClusterUpdate assigns a cluster to a prompt. Empty ClusterKeywords clears
// the stored keywords.
type ClusterUpdate struct {
	ID              string `json:"id"`
	ClusterGroup    string `json:"cluster_group"`
	ClusterKeywords string `json:"cluster_keywords,omitempty"`
}

// Validate checks that the update names a prompt and a cluster. The
// UnclusteredLabel is reserved for prompts without a cluster.
func (u ClusterUpdate) Validate() error {
	if u.ID == "" {
		return ErrInvalidID
	}
	if u.ClusterGroup == "" {
		return ErrInvalidData
	}
	if u.ClusterGroup == UnclusteredLabel {
		return ErrReservedName
	}
	return nil
}
