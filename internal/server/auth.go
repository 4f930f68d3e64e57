package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// requireAPIKey rejects requests whose X-API-Key header does not match the
// configured key. The comparison runs in constant time.
func (s *Server) requireAPIKey() echo.MiddlewareFunc {
	want := []byte(s.config.APIKey)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := []byte(c.Request().Header.Get(APIKeyHeader))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				return failWith(c, http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}
