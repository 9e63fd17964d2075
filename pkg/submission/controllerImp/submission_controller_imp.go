package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/submission/service"
)

type SubmissionCtrl struct{ s service.SubmissionService }

func New(s service.SubmissionService) *SubmissionCtrl { return &SubmissionCtrl{s} }

func (h *SubmissionCtrl) Register(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/work-submissions/:phase", h.Create)
	g.GET("/submissions", h.List)
	g.PUT("/submissions/:id", h.Patch)
}

func (h *SubmissionCtrl) Create(c echo.Context) error {
	phase, ok := entities.ParsePhase(c.Param("phase"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown phase"})
	}
	var in entities.WorkPayload
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	in.Phase = phase
	out, err := h.s.Create(in)
	if err != nil {
		return c.JSON(status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *SubmissionCtrl) List(c echo.Context) error {
	out, err := h.s.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SubmissionCtrl) Patch(c echo.Context) error {
	var in entities.StatusPatch
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	out, err := h.s.Decide(c.Param("id"), in.Status)
	if err != nil {
		return c.JSON(status(err), map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

// status is flow.HTTPStatus for the backend: a bad payload is a plain 400 and
// storage failures are the server's own.
func status(err error) int {
	switch code := flow.HTTPStatus(err); code {
	case http.StatusUnprocessableEntity:
		return http.StatusBadRequest
	case http.StatusBadGateway:
		return http.StatusInternalServerError
	default:
		return code
	}
}
