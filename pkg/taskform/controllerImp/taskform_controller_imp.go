package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/session"
)

// TaskFormCtrl drives the admin's task form of the calling session.
type TaskFormCtrl struct{ reg *session.Registry }

func New(reg *session.Registry) *TaskFormCtrl { return &TaskFormCtrl{reg} }

func (h *TaskFormCtrl) Register(g *echo.Group) {
	t := g.Group("/task-form")
	t.GET("", h.Get)
	t.PATCH("", h.Set)
	t.PUT("", h.Replace)
	t.POST("/submit", h.Submit)
	t.POST("/reset", h.Reset)
	t.GET("/history", h.History)
	t.GET("/history/export", h.Export)
}

func (h *TaskFormCtrl) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reg.From(c).TaskForm.State())
}

// Set applies {"field": "value", ...} one field at a time.
func (h *TaskFormCtrl) Set(c echo.Context) error {
	var in map[string]string
	if err := c.Bind(&in); err != nil {
		return session.BadRequest(c, "bad json")
	}
	f := h.reg.From(c).TaskForm
	for k, v := range in {
		if err := f.Set(k, v); err != nil {
			return session.Respond(c, err, f.State())
		}
	}
	return c.JSON(http.StatusOK, f.State())
}

func (h *TaskFormCtrl) Replace(c echo.Context) error {
	var in entities.TaskForm
	if err := c.Bind(&in); err != nil {
		return session.BadRequest(c, "bad json")
	}
	f := h.reg.From(c).TaskForm
	f.Replace(in)
	return c.JSON(http.StatusOK, f.State())
}

func (h *TaskFormCtrl) Submit(c echo.Context) error {
	f := h.reg.From(c).TaskForm
	err := f.Submit(session.Confirmed(c))
	return session.Respond(c, err, f.State())
}

func (h *TaskFormCtrl) Reset(c echo.Context) error {
	f := h.reg.From(c).TaskForm
	err := f.Reset(session.Confirmed(c))
	return session.Respond(c, err, f.State())
}

// History lists what this session assigned, optionally for one ?status=.
func (h *TaskFormCtrl) History(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reg.From(c).TaskForm.History(c.QueryParam("status")))
}

func (h *TaskFormCtrl) Export(c echo.Context) error {
	s := h.reg.From(c)
	return session.Download(c, s.Exports, s.TaskForm.ExportHistory(c.Request().Context()))
}
