package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mesh-intelligence/promptkeeper/pkg/types"
)

// envelope is the body of every response.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func okEmpty(c echo.Context) error {
	return c.JSON(http.StatusOK, envelope{Success: true})
}

func failWith(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Success: false, Error: msg})
}

// publicMessages are the client-facing texts for errors a caller can act on.
var publicMessages = []struct {
	err error
	msg string
}{
	{types.ErrInvalidTitle, "Title is required"},
	{types.ErrInvalidName, "Tag name is required"},
	{types.ErrInvalidBlockType, "Block type must be text or code"},
	{types.ErrUnknownTag, "Unknown tag id"},
	{types.ErrInvalidSnapshot, "Invalid import data"},
	{types.ErrReservedName, "Name is reserved"},
	{types.ErrInvalidID, "Invalid id"},
	{types.ErrInvalidData, "Invalid data"},
	{types.ErrDuplicateName, "Tag already exists"},
}

// fail writes the response for a store error. notFound is the message used
// for KindNotFound and internal for storage failures; storage failures are
// logged with the underlying error, which never reaches the client.
func (s *Server) fail(c echo.Context, err error, notFound, internal string) error {
	kind := types.KindOf(err)
	switch kind {
	case types.KindValidation, types.KindConflict:
		status := http.StatusBadRequest
		if kind == types.KindConflict {
			status = http.StatusConflict
		}
		for _, pm := range publicMessages {
			if errors.Is(err, pm.err) {
				return failWith(c, status, pm.msg)
			}
		}
		return failWith(c, status, "Invalid request")
	case types.KindNotFound:
		return failWith(c, http.StatusNotFound, notFound)
	default:
		s.log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg(internal)
		return failWith(c, http.StatusInternalServerError, internal)
	}
}

// handleError renders errors returned by handlers and middleware, such as
// unknown routes, as envelopes.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = failWith(c, status, msg)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("writing error response")
	}
}
