package controllerImp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/task/service"
)

type TaskCtrl struct{ s service.TaskService }

func New(s service.TaskService) *TaskCtrl { return &TaskCtrl{s} }

func (h *TaskCtrl) Register(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/tasks", h.Create)
	g.GET("/tasks", h.List)
	g.GET("/tasks/assignable", h.Assignable)
}

func (h *TaskCtrl) Create(c echo.Context) error {
	var in entities.TaskForm
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	t, err := h.s.Create(in)
	if errors.Is(err, flow.ErrInvalid) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TaskCtrl) List(c echo.Context) error {
	out, err := h.s.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TaskCtrl) Assignable(c echo.Context) error {
	out, err := h.s.Assignable()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}
