package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/pkg/middleware"
	"github.com/Muneeb381a/disiltting/pkg/session"
)

type SessionCtrl struct{ reg *session.Registry }

func New(reg *session.Registry) *SessionCtrl { return &SessionCtrl{reg} }

func (h *SessionCtrl) Register(g *echo.Group) {
	g.GET("/session", h.WhoAmI)
	g.POST("/session", h.Switch)
}

func (h *SessionCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"uid": session.UID(c)})
}

// Switch moves the browser onto another session, e.g. to pick up the drafts
// of a supervisor on a second device.
func (h *SessionCtrl) Switch(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		return session.BadRequest(c, "uid is required")
	}
	middleware.SetCookie(c, uid)
	h.reg.Get(uid)
	return c.JSON(http.StatusOK, map[string]string{"uid": uid})
}
