package http

import (
	"fmt"
	"net/http"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/window"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/id"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/utils"
	"github.com/gin-gonic/gin"
)

// Gesture phases
const (
	phaseBegin  = "begin"
	phaseMove   = "move"
	phaseEnd    = "end"
	phaseCancel = "cancel"
)

// OpenWindowRequest opens or re-activates a window
type OpenWindowRequest struct {
	Title    string         `json:"title"`
	Metadata map[string]any `json:"metadata"`
}

// GestureRequest is one pointer sample of a drag or resize
type GestureRequest struct {
	Phase string `json:"phase" binding:"required"`
	Edge  string `json:"edge"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

type windowView struct {
	window.Session
	Bounds types.Rect `json:"bounds"`
}

func view(s window.Session, vp types.Viewport) windowView {
	return windowView{Session: s, Bounds: s.Bounds(vp)}
}

// windowID validates the :id path parameter
func parseWindowID(c *gin.Context) (id.WindowID, bool) {
	raw := c.Param("id")
	if err := utils.ValidateID(raw, "window_id", true); err != nil {
		badRequest(c, err)
		return "", false
	}
	return id.WindowID(raw), true
}

// ListWindows lists open windows bottom to top
func (h *Handlers) ListWindows(c *gin.Context) {
	vp := h.viewportOf(c)
	sessions := h.windows.List()

	out := make([]windowView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, view(s, vp))
	}
	c.JSON(http.StatusOK, gin.H{
		"windows": out,
		"stats":   h.windows.Stats(),
	})
}

// OpenWindow opens a window, or re-activates the one with the same title
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req OpenWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateMetadata(req.Metadata); err != nil {
		badRequest(c, err)
		return
	}

	s, reused := h.windows.Open(utils.SanitizeTitle(req.Title), req.Metadata)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reused":  reused,
		"window":  view(s, h.viewportOf(c)),
	})
}

// windowAction adapts a manager operation taking only the window id
func (h *Handlers) windowAction(op func(id.WindowID) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		windowID, ok := parseWindowID(c)
		if !ok {
			return
		}
		h.respond(c, windowID, op(windowID))
	}
}

func (h *Handlers) respond(c *gin.Context, windowID id.WindowID, success bool) {
	body := gin.H{
		"success":   success,
		"window_id": windowID,
	}
	if s, ok := h.windows.Get(windowID); ok {
		body["window"] = view(s, h.viewportOf(c))
	}
	c.JSON(http.StatusOK, body)
}

// FocusWindow raises a window to the top
func (h *Handlers) FocusWindow(c *gin.Context) { h.windowAction(h.windows.Focus)(c) }

// MinimizeWindow hides a window
func (h *Handlers) MinimizeWindow(c *gin.Context) { h.windowAction(h.windows.Minimize)(c) }

// RestoreWindow un-hides a window without raising it
func (h *Handlers) RestoreWindow(c *gin.Context) { h.windowAction(h.windows.Restore)(c) }

// ToggleMaximize flips the maximized flag
func (h *Handlers) ToggleMaximize(c *gin.Context) { h.windowAction(h.windows.ToggleMaximize)(c) }

// CloseWindow destroys a window
func (h *Handlers) CloseWindow(c *gin.Context) { h.windowAction(h.windows.Close)(c) }

// CloseAllWindows destroys every window
func (h *Handlers) CloseAllWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"closed": h.windows.CloseAll()})
}

// DragWindow feeds one sample of a title-bar drag
func (h *Handlers) DragWindow(c *gin.Context) {
	windowID, ok := parseWindowID(c)
	if !ok {
		return
	}
	var req GestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pointer := types.Point{X: req.X, Y: req.Y}
	var success bool
	switch req.Phase {
	case phaseBegin:
		success = h.windows.BeginDrag(windowID, pointer)
	case phaseMove:
		success = h.windows.UpdateDrag(windowID, pointer)
	case phaseEnd:
		success = h.windows.EndDrag(windowID)
	case phaseCancel:
		success = h.windows.CancelDrag(windowID)
	default:
		badRequest(c, fmt.Errorf("unknown phase %q", req.Phase))
		return
	}
	h.respond(c, windowID, success)
}

// ResizeWindow feeds one sample of an edge or corner resize
func (h *Handlers) ResizeWindow(c *gin.Context) {
	windowID, ok := parseWindowID(c)
	if !ok {
		return
	}
	var req GestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pointer := types.Point{X: req.X, Y: req.Y}
	var success bool
	switch req.Phase {
	case phaseBegin:
		edge, ok := window.ParseEdge(req.Edge)
		if !ok {
			badRequest(c, fmt.Errorf("unknown edge %q", req.Edge))
			return
		}
		success = h.windows.BeginResize(windowID, edge, pointer)
	case phaseMove:
		success = h.windows.UpdateResize(windowID, pointer)
	case phaseEnd:
		success = h.windows.EndResize(windowID)
	case phaseCancel:
		success = h.windows.CancelResize(windowID)
	default:
		badRequest(c, fmt.Errorf("unknown phase %q", req.Phase))
		return
	}
	h.respond(c, windowID, success)
}
