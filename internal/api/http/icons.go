package http

import (
	"net/http"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DropIconRequest is where an icon was dropped
type DropIconRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

// ListIcons lays out the desktop icons for the viewport
func (h *Handlers) ListIcons(c *gin.Context) {
	vp := h.viewportOf(c)
	c.JSON(http.StatusOK, gin.H{
		"icons":    h.icons.Layout(registry.IDs(h.registry.Desktop()), vp),
		"viewport": vp,
	})
}

// DropIcon saves an icon's dropped position
func (h *Handlers) DropIcon(c *gin.Context) {
	appID := c.Param("id")
	if err := utils.ValidateAppName(appID); err != nil {
		badRequest(c, err)
		return
	}
	var req DropIconRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pos := types.Point{X: *req.X, Y: *req.Y}
	if err := h.icons.RecordDrop(appID, pos); err != nil {
		h.logger.Error("Failed to save icon position", zap.String("app", appID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save icon position"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": appID, "position": pos})
}

// ForgetIcon returns one icon to its grid slot
func (h *Handlers) ForgetIcon(c *gin.Context) {
	appID := c.Param("id")
	if err := utils.ValidateAppName(appID); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.icons.Forget(appID); err != nil {
		h.logger.Error("Failed to forget icon position", zap.String("app", appID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save icon positions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": appID})
}

// ResetIcons returns every icon to its grid slot
func (h *Handlers) ResetIcons(c *gin.Context) {
	if err := h.icons.Reset(); err != nil {
		h.logger.Error("Failed to reset icon positions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save icon positions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
