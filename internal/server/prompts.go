package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// listPrompts handles GET /api/prompts. groupBy=cluster or groupBy=tag
// returns an object of label to prompts; any other value lists all prompts.
func (s *Server) listPrompts(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		data any
		err  error
	)
	switch c.QueryParam("groupBy") {
	case "cluster":
		data, err = s.store.GroupByCluster(ctx)
	case "tag":
		data, err = s.store.GroupByTag(ctx)
	default:
		data, err = s.store.ListPrompts(ctx)
	}
	if err != nil {
		return s.fail(c, err, "", "Failed to fetch prompts")
	}
	return ok(c, http.StatusOK, data)
}

// getPrompt handles GET /api/prompts/:id.
func (s *Server) getPrompt(c echo.Context) error {
	detail, err := s.store.GetPrompt(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err, "Prompt not found", "Failed to fetch prompt")
	}
	return ok(c, http.StatusOK, detail)
}

// createPrompt handles POST /api/prompts.
func (s *Server) createPrompt(c echo.Context) error {
	var in types.CreatePromptInput
	if err := c.Bind(&in); err != nil {
		return failWith(c, http.StatusBadRequest, "Invalid JSON body")
	}

	id, err := s.store.CreatePrompt(c.Request().Context(), in)
	if err != nil {
		return s.fail(c, err, "", "Failed to create prompt")
	}
	return ok(c, http.StatusCreated, map[string]string{"id": id})
}

// updatePrompt handles PUT /api/prompts/:id. Fields absent from the body
// are left unchanged.
func (s *Server) updatePrompt(c echo.Context) error {
	var in types.UpdatePromptInput
	if err := c.Bind(&in); err != nil {
		return failWith(c, http.StatusBadRequest, "Invalid JSON body")
	}

	if err := s.store.UpdatePrompt(c.Request().Context(), c.Param("id"), in); err != nil {
		return s.fail(c, err, "Prompt not found", "Failed to update prompt")
	}
	return okEmpty(c)
}

// deletePrompt handles DELETE /api/prompts/:id.
func (s *Server) deletePrompt(c echo.Context) error {
	if err := s.store.DeletePrompt(c.Request().Context(), c.Param("id")); err != nil {
		return s.fail(c, err, "Prompt not found", "Failed to delete prompt")
	}
	return okEmpty(c)
}
