package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Muneeb381a/disiltting/pkg/backend"
)

var appStart = time.Now()

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

// HealthCtrl reports whether the database answers and, when the workflows
// talk to a remote backend, whether that answers too.
type HealthCtrl struct {
	db     *gorm.DB
	remote backend.Client
}

// NewHealthCtrl takes a nil remote when the backend runs in-process.
func NewHealthCtrl(db *gorm.DB, remote backend.Client) *HealthCtrl {
	return &HealthCtrl{db: db, remote: remote}
}

func (h *HealthCtrl) Register(e *echo.Echo) { e.GET("/health", h.Health) }

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	checks := map[string]check{"database": h.database(ctx)}
	if h.remote != nil {
		checks["backend"] = h.backend(ctx)
	}
	ok := true
	for _, ch := range checks {
		ok = ok && ch.OK
	}
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": ok},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks":     checks,
		"time":       time.Now().Format(time.RFC3339),
	})
}

func (h *HealthCtrl) database(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}

func (h *HealthCtrl) backend(ctx context.Context) check {
	var out []map[string]any
	if err := h.remote.Get(ctx, backend.EndpointAssignable, &out); err != nil {
		return check{Err: err.Error()}
	}
	return check{OK: true}
}
