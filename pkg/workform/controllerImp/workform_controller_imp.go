package controllerImp

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/entities"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/geo"
	"github.com/Muneeb381a/disiltting/pkg/session"
)

// WorkFormCtrl drives the supervisor's work form of the calling session.
type WorkFormCtrl struct{ reg *session.Registry }

func New(reg *session.Registry) *WorkFormCtrl { return &WorkFormCtrl{reg} }

func (h *WorkFormCtrl) Register(g *echo.Group) {
	w := g.Group("/work-form")
	w.GET("", h.Get)
	w.GET("/tasks", h.Tasks)
	w.PUT("/task", h.SelectTask)
	w.PUT("/phase", h.SetPhase)
	w.PATCH("/:phase", h.SetFields)
	w.POST("/:phase/images", h.AttachImage)
	w.DELETE("/:phase/images/:index", h.RemoveImage)
	w.POST("/:phase/location", h.Location)
	w.POST("/:phase/submit", h.Submit)
	w.POST("/reset", h.Reset)
	w.GET("/history", h.History)
	w.GET("/history/export", h.Export)
}

func phaseParam(c echo.Context) (entities.Phase, error) {
	p, ok := entities.ParsePhase(c.Param("phase"))
	if !ok {
		return "", fmt.Errorf("%w: unknown phase %q", flow.ErrNotFound, c.Param("phase"))
	}
	return p, nil
}

func (h *WorkFormCtrl) Get(c echo.Context) error {
	w := h.reg.From(c).WorkForm
	return c.JSON(http.StatusOK, w.State())
}

func (h *WorkFormCtrl) Tasks(c echo.Context) error {
	w := h.reg.From(c).WorkForm
	tasks, err := w.Tasks(c.Request().Context())
	if err != nil {
		return session.Respond(c, err, w.State())
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *WorkFormCtrl) SelectTask(c echo.Context) error {
	var in struct {
		TaskID string `json:"task_id"`
	}
	if err := c.Bind(&in); err != nil {
		return session.BadRequest(c, "bad json")
	}
	w := h.reg.From(c).WorkForm
	return session.Respond(c, w.SelectTask(c.Request().Context(), in.TaskID), w.State())
}

func (h *WorkFormCtrl) SetPhase(c echo.Context) error {
	var in struct {
		Phase string `json:"phase"`
	}
	if err := c.Bind(&in); err != nil {
		return session.BadRequest(c, "bad json")
	}
	w := h.reg.From(c).WorkForm
	p, ok := entities.ParsePhase(in.Phase)
	if !ok {
		return session.Respond(c, fmt.Errorf("%w: unknown phase %q", flow.ErrInvalid, in.Phase), w.State())
	}
	return session.Respond(c, w.SetPhase(p), w.State())
}

// SetFields applies {"notes": "...", "length": "12"} to one phase.
func (h *WorkFormCtrl) SetFields(c echo.Context) error {
	w := h.reg.From(c).WorkForm
	p, err := phaseParam(c)
	if err != nil {
		return session.Respond(c, err, w.State())
	}
	var in map[string]string
	if err := c.Bind(&in); err != nil {
		return session.BadRequest(c, "bad json")
	}
	for k, v := range in {
		if err := w.SetField(p, k, v); err != nil {
			return session.Respond(c, err, w.State())
		}
	}
	return c.JSON(http.StatusOK, w.State())
}

// AttachImage takes a multipart "image" file, or JSON metadata of a file the
// browser already holds. Only the metadata is kept.
func (h *WorkFormCtrl) AttachImage(c echo.Context) error {
	w := h.reg.From(c).WorkForm
	p, err := phaseParam(c)
	if err != nil {
		return session.Respond(c, err, w.State())
	}
	var a entities.Attachment
	if fh, ferr := c.FormFile("image"); ferr == nil {
		a = entities.Attachment{Name: fh.Filename, MimeType: fh.Header.Get(echo.HeaderContentType), Size: fh.Size}
		if a.MimeType == "" {
			a.MimeType = sniff(fh)
		}
	} else if err := c.Bind(&a); err != nil {
		return session.BadRequest(c, "bad json")
	}
	return session.Respond(c, w.AttachImage(p, a), w.State())
}

func sniff(fh *multipart.FileHeader) string {
	f, err := fh.Open()
	if err != nil {
		return ""
	}
	defer f.Close()
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	return http.DetectContentType(head[:n])
}

func (h *WorkFormCtrl) RemoveImage(c echo.Context) error {
	w := h.reg.From(c).WorkForm
	p, err := phaseParam(c)
	if err != nil {
		return session.Respond(c, err, w.State())
	}
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return session.BadRequest(c, "bad index")
	}
	return session.Respond(c, w.RemoveImage(p, i), w.State())
}

type locationIn struct {
	// Manual marks coordinates typed in by the supervisor rather than
	// reported by the device.
	Manual bool     `json:"manual"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	// Error is the browser's geolocation failure, if any.
	Error string `json:"error"`
}

func (h *WorkFormCtrl) Location(c echo.Context) error {
	w := h.reg.From(c).WorkForm
	p, err := phaseParam(c)
	if err != nil {
		return session.Respond(c, err, w.State())
	}
	var in locationIn
	if err := c.Bind(&in); err != nil {
		return session.BadRequest(c, "bad json")
	}
	if in.Manual {
		lat, lng := math.NaN(), math.NaN()
		if in.Lat != nil && in.Lng != nil {
			lat, lng = *in.Lat, *in.Lng
		}
		return session.Respond(c, w.SetLocation(p, lat, lng), w.State())
	}
	ctx := c.Request().Context()
	switch {
	case in.Error == "unsupported":
		ctx = geo.WithError(ctx, geo.ErrUnsupported)
	case in.Error != "":
		ctx = geo.WithError(ctx, errors.New(in.Error))
	case in.Lat != nil && in.Lng != nil:
		ctx = geo.WithPosition(ctx, geo.Position{Lat: *in.Lat, Lng: *in.Lng})
	}
	return session.Respond(c, w.CaptureLocation(ctx, p), w.State())
}

func (h *WorkFormCtrl) Submit(c echo.Context) error {
	w := h.reg.From(c).WorkForm
	p, err := phaseParam(c)
	if err != nil {
		return session.Respond(c, err, w.State())
	}
	return session.Respond(c, w.Submit(session.Confirmed(c), p), w.State())
}

func (h *WorkFormCtrl) Reset(c echo.Context) error {
	w := h.reg.From(c).WorkForm
	return session.Respond(c, w.Reset(session.Confirmed(c)), w.State())
}

func (h *WorkFormCtrl) History(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reg.From(c).WorkForm.History(c.QueryParam("task_id")))
}

func (h *WorkFormCtrl) Export(c echo.Context) error {
	s := h.reg.From(c)
	return session.Download(c, s.Exports, s.WorkForm.ExportHistory(c.Request().Context()))
}
