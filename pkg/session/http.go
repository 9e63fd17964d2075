package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Muneeb381a/disiltting/pkg/export"
	"github.com/Muneeb381a/disiltting/pkg/flow"
	"github.com/Muneeb381a/disiltting/pkg/prompt"
)

// UID is the session id the middleware put on c.
func UID(c echo.Context) string {
	uid, _ := c.Get("uid").(string)
	return uid
}

// From returns the session of the request.
func (r *Registry) From(c echo.Context) *Session { return r.Get(UID(c)) }

// Confirmed reads the user's answer to a confirmation, from ?confirm= or a
// JSON body {"confirm": true}, and returns a context carrying it.
func Confirmed(c echo.Context) context.Context {
	ctx := c.Request().Context()
	if q := c.QueryParam("confirm"); q != "" {
		yes, _ := strconv.ParseBool(q)
		return prompt.WithDecision(ctx, yes)
	}
	var body struct {
		Confirm bool `json:"confirm"`
	}
	if b, err := io.ReadAll(io.LimitReader(c.Request().Body, 4<<10)); err == nil && len(b) > 0 {
		_ = json.Unmarshal(b, &body)
	}
	return prompt.WithDecision(ctx, body.Confirm)
}

// Respond sends state with the status err maps to. A failed action still
// carries the state so the view can show field errors and the banner.
func Respond(c echo.Context, err error, state any) error {
	if err == nil {
		return c.JSON(http.StatusOK, state)
	}
	return c.JSON(flow.HTTPStatus(err), map[string]any{"error": err.Error(), "state": state})
}

// Download serves the latest export of the session as an attachment.
func Download(c echo.Context, files *export.Recorder, err error) error {
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	f, ok := files.Last()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "nothing exported"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+strings.ReplaceAll(f.Name, `"`, "")+`"`)
	return c.Blob(http.StatusOK, f.MimeType, f.Content)
}

// BadRequest answers a body or parameter that could not be read.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
