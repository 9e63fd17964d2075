package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/pkg/session"
)

// DashboardCtrl serves the session's dashboard view, as opposed to SummaryCtrl
// which computes the numbers.
type DashboardCtrl struct{ reg *session.Registry }

func NewDashboardCtrl(reg *session.Registry) *DashboardCtrl { return &DashboardCtrl{reg} }

func (h *DashboardCtrl) Register(g *echo.Group) {
	d := g.Group("/dashboard-view")
	d.POST("/refresh", h.Refresh)
	d.GET("", h.View)
	d.GET("/export", h.Export)
}

func (h *DashboardCtrl) Refresh(c echo.Context) error {
	d := h.reg.From(c).Dashboard
	return session.Respond(c, d.Refresh(c.Request().Context()), d.View())
}

// View applies ?q= when present.
func (h *DashboardCtrl) View(c echo.Context) error {
	d := h.reg.From(c).Dashboard
	if q, ok := c.QueryParams()["q"]; ok {
		d.SetQuery(q[0])
	}
	return c.JSON(http.StatusOK, d.View())
}

func (h *DashboardCtrl) Export(c echo.Context) error {
	s := h.reg.From(c)
	return session.Download(c, s.Exports, s.Dashboard.ExportCSV(c.Request().Context()))
}
