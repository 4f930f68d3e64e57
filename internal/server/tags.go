package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type createTagRequest struct {
	Name string `json:"name"`
}

type deleteTagRequest struct {
	ID int64 `json:"id" query:"id"`
}

// listTags handles GET /api/tags.
func (s *Server) listTags(c echo.Context) error {
	tags, err := s.store.ListTags(c.Request().Context())
	if err != nil {
		return s.fail(c, err, "", "Failed to fetch tags")
	}
	return ok(c, http.StatusOK, tags)
}

// createTag handles POST /api/tags. The name is trimmed before it is stored.
func (s *Server) createTag(c echo.Context) error {
	var req createTagRequest
	if err := c.Bind(&req); err != nil {
		return failWith(c, http.StatusBadRequest, "Invalid JSON body")
	}

	id, err := s.store.CreateTag(c.Request().Context(), strings.TrimSpace(req.Name))
	if err != nil {
		return s.fail(c, err, "", "Failed to create tag")
	}
	return ok(c, http.StatusCreated, map[string]int64{"id": id})
}

// deleteTag handles DELETE /api/tags with body {"id": n}.
func (s *Server) deleteTag(c echo.Context) error {
	var req deleteTagRequest
	if err := c.Bind(&req); err != nil {
		return failWith(c, http.StatusBadRequest, "Invalid JSON body")
	}
	if req.ID <= 0 {
		return failWith(c, http.StatusBadRequest, "Tag ID is required")
	}

	if err := s.store.DeleteTag(c.Request().Context(), req.ID); err != nil {
		return s.fail(c, err, "Tag not found", "Failed to delete tag")
	}
	return okEmpty(c)
}
