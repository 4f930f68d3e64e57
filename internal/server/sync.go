package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

type updateClustersResult struct {
	Updated int `json:"updated"`
	Matched int `json:"matched"`
}

// exportForClustering handles GET /api/sync/export-for-clustering.
func (s *Server) exportForClustering(c echo.Context) error {
	items, err := s.store.ExportForClustering(c.Request().Context())
	if err != nil {
		return s.fail(c, err, "", "Failed to export data")
	}
	return c.JSON(http.StatusOK, envelope{
		Success:   true,
		Data:      items,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// updateClusters handles POST /api/sync/update-clusters with a JSON array of
// {id, cluster_group, cluster_keywords?}. updated is the number of items
// received and matched the number of prompts that exist.
func (s *Server) updateClusters(c echo.Context) error {
	var updates []types.ClusterUpdate
	if err := c.Bind(&updates); err != nil {
		return failWith(c, http.StatusBadRequest,
			"Invalid data: expected array of { id, cluster_group, cluster_keywords? }")
	}
	for _, u := range updates {
		if u.ID == "" {
			return failWith(c, http.StatusBadRequest, "Each item must have a valid id")
		}
		if u.ClusterGroup == "" {
			return failWith(c, http.StatusBadRequest, "Each item must have a valid cluster_group")
		}
	}

	matched, err := s.store.ApplyClusterUpdates(c.Request().Context(), updates)
	if err != nil {
		return s.fail(c, err, "", "Failed to update clusters")
	}
	if matched < len(updates) {
		s.log.Warn().Int("received", len(updates)).Int("matched", matched).
			Msg("cluster updates named unknown prompts")
	}
	return ok(c, http.StatusOK, updateClustersResult{Updated: len(updates), Matched: matched})
}
