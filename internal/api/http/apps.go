package http

import (
	"net/http"
	"strconv"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/pager"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/route"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// ListApps returns the catalogue and the order of each view
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps":    h.registry.All(),
		"desktop": registry.IDs(h.registry.Desktop()),
		"home":    registry.IDs(h.registry.Home()),
		"dock":    registry.IDs(h.registry.Dock()),
	})
}

// HomePage returns one page of the home screen grid. page is 1-based and
// clamped like a /pages/<n> route.
func (h *Handlers) HomePage(c *gin.Context) {
	home := h.registry.Home()
	total := pager.TotalPages(len(home), h.pageSize)

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	index := route.ClampIndex(page-1, total)

	c.JSON(http.StatusOK, gin.H{
		"page":        index + 1,
		"path":        route.PagePath(index),
		"total_pages": total,
		"page_size":   h.pageSize,
		"apps":        pager.PageSlice(home, index, h.pageSize),
	})
}

// Dock returns the dock apps
func (h *Handlers) Dock(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"apps": h.registry.Dock()})
}

// Launch resolves an app and returns the path to navigate to. Mobile
// launches remember the home screen page; unknown apps report failure.
func (h *Handlers) Launch(c *gin.Context) {
	name := c.Param("name")
	if err := utils.ValidateAppName(name); err != nil {
		badRequest(c, err)
		return
	}

	mobile := c.Query("mobile") == "true"
	fromPage := 0
	start := "/"
	if mobile {
		fromPage = 1
		if n, ok := route.FromPage(c.Request.URL.RawQuery); ok {
			fromPage = n
		}
		start = route.PagePath(fromPage - 1)
	}

	history := route.NewHistory(start)
	app, ok := h.launcher.Open(history, name, fromPage)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "name": name})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"app":     app,
		"path":    history.Current(),
	})
}

// Back returns where leaving an app leads. With mobile and a fromPage the
// home screen page replaces the app; otherwise the client goes back.
func (h *Handlers) Back(c *gin.Context) {
	mobile := c.Query("mobile") == "true"
	rawQuery := c.Request.URL.RawQuery
	_, hasFrom := route.FromPage(rawQuery)

	history := route.NewHistory("/")
	if current := c.Query("path"); current != "" {
		history.Push(current)
	}
	path := h.launcher.Back(history, rawQuery, mobile)

	c.JSON(http.StatusOK, gin.H{
		"path":    path,
		"replace": mobile && hasFrom,
	})
}
