// Package http exposes the shell components over REST.
//
// Stale window ids answer 200 with "success": false, like a click on a
// window that just closed. Only malformed input answers 400.
package http

import (
	"net/http"
	"strconv"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/icons"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/launch"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/pager"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/prefs"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/window"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Deps are the components the handlers drive
type Deps struct {
	Windows  *window.Manager
	Icons    *icons.Engine
	Registry *registry.Registry
	Launcher *launch.Launcher
	Prefs    *prefs.Service
	Metrics  *monitoring.Metrics
	Logger   *zap.Logger
	Pager    pager.Config
	Viewport types.Viewport // used when a request does not report one
}

// Handlers contains all HTTP handlers
type Handlers struct {
	windows  *window.Manager
	icons    *icons.Engine
	registry *registry.Registry
	launcher *launch.Launcher
	prefs    *prefs.Service
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	pageSize int
	viewport types.Viewport
}

// NewHandlers creates a new handler set
func NewHandlers(d Deps) *Handlers {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Pager.PageSize <= 0 {
		d.Pager = pager.DefaultConfig()
	}
	return &Handlers{
		windows:  d.Windows,
		icons:    d.Icons,
		registry: d.Registry,
		launcher: d.Launcher,
		prefs:    d.Prefs,
		metrics:  d.Metrics,
		logger:   d.Logger,
		pageSize: d.Pager.PageSize,
		viewport: d.Viewport,
	}
}

// Register mounts every REST route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics/json", h.MetricsJSON)

	// Desktop windows
	r.GET("/windows", h.ListWindows)
	r.POST("/windows", h.OpenWindow)
	r.POST("/windows/:id/focus", h.FocusWindow)
	r.POST("/windows/:id/minimize", h.MinimizeWindow)
	r.POST("/windows/:id/restore", h.RestoreWindow)
	r.POST("/windows/:id/maximize", h.ToggleMaximize)
	r.POST("/windows/:id/drag", h.DragWindow)
	r.POST("/windows/:id/resize", h.ResizeWindow)
	r.DELETE("/windows/:id", h.CloseWindow)
	r.DELETE("/windows", h.CloseAllWindows)

	// Desktop icons
	r.GET("/icons", h.ListIcons)
	r.PUT("/icons/:id", h.DropIcon)
	r.DELETE("/icons/:id", h.ForgetIcon)
	r.DELETE("/icons", h.ResetIcons)

	// Registry and launching
	r.GET("/apps", h.ListApps)
	r.GET("/apps/home", h.HomePage)
	r.GET("/apps/dock", h.Dock)
	r.GET("/launch/back", h.Back)
	r.GET("/launch/:name", h.Launch)

	// Preferences
	r.GET("/prefs", h.GetPrefs)
	r.PUT("/prefs", h.UpdatePrefs)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "DualShell backend",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":        "healthy",
		"windows":       h.windows.Stats(),
		"registry_apps": h.registry.Len(),
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// MetricsJSON returns the metrics snapshot
func (h *Handlers) MetricsJSON(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "metrics disabled"})
		return
	}
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// viewportOf reads width/height query parameters, falling back to the
// configured viewport for missing or invalid values
func (h *Handlers) viewportOf(c *gin.Context) types.Viewport {
	vp := h.viewport
	if w, err := strconv.Atoi(c.Query("width")); err == nil && w > 0 {
		vp.Width = w
	}
	if hgt, err := strconv.Atoi(c.Query("height")); err == nil && hgt > 0 {
		vp.Height = hgt
	}
	return vp
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
