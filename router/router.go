package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/pkg/middleware"
)

// Backend is a controller serving the /api/v1 backend surface.
type Backend interface{ Register(e *echo.Echo) }

// View is a controller serving one session-scoped view under /app.
type View interface{ Register(g *echo.Group) }

// New mounts the backend API as is and the views behind the session
// middleware. strict refuses view requests without a session.
func New(e *echo.Echo, strict bool, health Backend, backends []Backend, views []View) *echo.Echo {
	health.Register(e)
	for _, b := range backends {
		b.Register(e)
	}
	app := e.Group("/app", middleware.Strict(strict), middleware.Session())
	for _, v := range views {
		v.Register(app)
	}
	return e
}
