package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Strict refuses requests that arrive without a session, from the
// X-Session-Id header or the session cookie. Disabled, it passes everything
// through and Session issues ids instead.
func Strict(enabled bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !enabled {
				return next(c)
			}
			uid := c.Request().Header.Get("X-Session-Id")
			if uid == "" {
				if ck, err := c.Cookie(Cookie); err == nil {
					uid = ck.Value
				}
			}
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session required"})
			}
			c.Set("uid", uid)
			return next(c)
		}
	}
}
