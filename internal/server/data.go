package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mesh-intelligence/promptkeeper/internal/archive"
	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

type importCounts struct {
	Prompts int `json:"prompts"`
	Tags    int `json:"tags"`
}

type importResult struct {
	Imported   importCounts `json:"imported"`
	BackupPath *string      `json:"backupPath"`
}

// exportData handles GET /api/data/export.
func (s *Server) exportData(c echo.Context) error {
	snap, err := s.store.ExportAll(c.Request().Context())
	if err != nil {
		return s.fail(c, err, "", "Failed to export data")
	}
	return ok(c, http.StatusOK, types.NewExportDocument(snap))
}

// importData handles POST /api/data/import. The database is backed up first;
// a failed backup is logged and the import proceeds.
func (s *Server) importData(c echo.Context) error {
	ctx := c.Request().Context()

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return failWith(c, http.StatusBadRequest, "Invalid request body")
	}
	doc, err := archive.DecodeJSON(raw)
	if err != nil {
		return s.fail(c, err, "", "Failed to import data")
	}

	var backupPath *string
	if path, err := s.store.BackupDatabase(ctx); err != nil {
		s.log.Warn().Err(err).Msg("backup before import failed, continuing")
	} else {
		backupPath = &path
	}

	if _, err := s.store.ImportAll(ctx, &doc.Snapshot); err != nil {
		return s.fail(c, err, "", "Failed to import data")
	}

	s.log.Info().
		Int("prompts", len(doc.Prompts)).
		Int("tags", len(doc.Tags)).
		Bool("backed_up", backupPath != nil).
		Msg("imported data")
	return ok(c, http.StatusOK, importResult{
		Imported:   importCounts{Prompts: len(doc.Prompts), Tags: len(doc.Tags)},
		BackupPath: backupPath,
	})
}
