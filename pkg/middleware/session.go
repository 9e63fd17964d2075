package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Cookie carries the session id between requests.
const Cookie = "WASA_SESSION"

// Session puts a session id on every request as "uid". It comes from the
// cookie, then ?uid=, and otherwise a fresh one is issued. An id already
// set by Strict is kept.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid, _ := c.Get("uid").(string); uid != "" {
				return next(c)
			}
			uid := ""
			if ck, err := c.Cookie(Cookie); err == nil {
				uid = ck.Value
			}
			if uid == "" {
				uid = c.QueryParam("uid")
				if uid == "" {
					uid = uuid.NewString()
				}
				SetCookie(c, uid)
			}
			c.Set("uid", uid)
			return next(c)
		}
	}
}

func SetCookie(c echo.Context, uid string) {
	c.SetCookie(&http.Cookie{Name: Cookie, Value: uid, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
}
