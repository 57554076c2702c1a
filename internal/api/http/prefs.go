package http

import (
	"net/http"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/prefs"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handlers) prefsBody(c *gin.Context, p prefs.Prefs) gin.H {
	vp := h.viewportOf(c)
	return gin.H{
		"prefs":          p,
		"reduced_motion": p.ReducedMotion(),
		"mobile":         prefs.ShouldUseMobile(p.OS, prefs.IsMobileViewport(vp.Width)),
	}
}

// GetPrefs returns the preferences and what they resolve to for the viewport
func (h *Handlers) GetPrefs(c *gin.Context) {
	c.JSON(http.StatusOK, h.prefsBody(c, h.prefs.Get()))
}

// UpdatePrefs applies a partial update
func (h *Handlers) UpdatePrefs(c *gin.Context) {
	var patch prefs.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	if err := patch.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.prefs.Update(patch)
	if err != nil {
		h.logger.Error("Failed to save preferences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
		return
	}
	c.JSON(http.StatusOK, h.prefsBody(c, p))
}
