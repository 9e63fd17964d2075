package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/pkg/review/service"
	"github.com/Muneeb381a/disiltting/pkg/session"
)

// ReviewCtrl drives the approval queue of the calling session.
type ReviewCtrl struct{ reg *session.Registry }

func New(reg *session.Registry) *ReviewCtrl { return &ReviewCtrl{reg} }

func (h *ReviewCtrl) Register(g *echo.Group) {
	r := g.Group("/review")
	r.POST("/load", h.Load)
	r.GET("", h.View)
	r.PUT("/filter", h.Filter)
	r.POST("/sort/:key", h.Sort)
	r.PUT("/page/:n", h.Page)
	r.POST("/:id/approve", h.Approve)
	r.POST("/:id/reject", h.Reject)
	r.GET("/export", h.Export)
}

func (h *ReviewCtrl) Load(c echo.Context) error {
	r := h.reg.From(c).Review
	return session.Respond(c, r.Load(c.Request().Context()), r.View())
}

func (h *ReviewCtrl) View(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reg.From(c).Review.View())
}

// Filter accepts the filter as JSON or as ?status=&task_id=.
func (h *ReviewCtrl) Filter(c echo.Context) error {
	var f service.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &f); err != nil {
		return session.BadRequest(c, "bad filter")
	}
	if err := c.Bind(&f); err != nil {
		return session.BadRequest(c, "bad filter")
	}
	r := h.reg.From(c).Review
	r.SetFilter(f)
	return c.JSON(http.StatusOK, r.View())
}

func (h *ReviewCtrl) Sort(c echo.Context) error {
	r := h.reg.From(c).Review
	return session.Respond(c, r.SetSort(c.Param("key")), r.View())
}

func (h *ReviewCtrl) Page(c echo.Context) error {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		return session.BadRequest(c, "bad page")
	}
	r := h.reg.From(c).Review
	r.SetPage(n)
	return c.JSON(http.StatusOK, r.View())
}

func (h *ReviewCtrl) Approve(c echo.Context) error {
	r := h.reg.From(c).Review
	return session.Respond(c, r.Approve(session.Confirmed(c), c.Param("id")), r.View())
}

func (h *ReviewCtrl) Reject(c echo.Context) error {
	r := h.reg.From(c).Review
	return session.Respond(c, r.Reject(session.Confirmed(c), c.Param("id")), r.View())
}

// Export downloads the filtered list, as JSON or with ?format=xlsx.
func (h *ReviewCtrl) Export(c echo.Context) error {
	s := h.reg.From(c)
	ctx := c.Request().Context()
	if c.QueryParam("format") == "xlsx" {
		return session.Download(c, s.Exports, s.Review.ExportFilteredXLSX(ctx))
	}
	return session.Download(c, s.Exports, s.Review.ExportFiltered(ctx))
}
