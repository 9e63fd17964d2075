package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/pkg/dashboard"
	subService "github.com/Muneeb381a/disiltting/pkg/submission/service"
	taskService "github.com/Muneeb381a/disiltting/pkg/task/service"
)

// SummaryCtrl serves the backend side of the dashboard.
type SummaryCtrl struct {
	tasks taskService.TaskService
	subs  subService.SubmissionService
}

func NewSummaryCtrl(tasks taskService.TaskService, subs subService.SubmissionService) *SummaryCtrl {
	return &SummaryCtrl{tasks: tasks, subs: subs}
}

func (h *SummaryCtrl) Register(e *echo.Echo) {
	e.Group("/api/v1").GET("/dashboard", h.Summary)
}

func (h *SummaryCtrl) Summary(c echo.Context) error {
	tasks, err := h.tasks.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	subs, err := h.subs.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, dashboard.Summarize(tasks, subs))
}
