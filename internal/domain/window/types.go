package window

import (
	"maps"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/shared/id"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
)

// Session is one open window
type Session struct {
	ID        id.WindowID    `json:"id"`
	Title     string         `json:"title"`
	Position  types.Point    `json:"position"`
	Size      types.Size     `json:"size"`
	Minimized bool           `json:"isMinimized"`
	Maximized bool           `json:"isMaximized"`
	ZIndex    int            `json:"zIndex"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Bounds returns the rectangle the window occupies on screen. A maximized
// window fills the viewport; its stored geometry is left alone.
func (s Session) Bounds(viewport types.Viewport) types.Rect {
	if s.Maximized {
		return types.Rect{Width: viewport.Width, Height: viewport.Height}
	}
	return types.RectOf(s.Position, s.Size)
}

func (s *Session) rect() types.Rect {
	return types.RectOf(s.Position, s.Size)
}

func (s *Session) clone() Session {
	c := *s
	c.Metadata = maps.Clone(s.Metadata)
	return c
}

// Edge names a resize handle
type Edge string

const (
	EdgeNorth     Edge = "n"
	EdgeSouth     Edge = "s"
	EdgeEast      Edge = "e"
	EdgeWest      Edge = "w"
	EdgeNorthEast Edge = "ne"
	EdgeNorthWest Edge = "nw"
	EdgeSouthEast Edge = "se"
	EdgeSouthWest Edge = "sw"
)

// ParseEdge validates a handle name
func ParseEdge(s string) (Edge, bool) {
	switch e := Edge(s); e {
	case EdgeNorth, EdgeSouth, EdgeEast, EdgeWest,
		EdgeNorthEast, EdgeNorthWest, EdgeSouthEast, EdgeSouthWest:
		return e, true
	}
	return "", false
}

func (e Edge) north() bool { return e == EdgeNorth || e == EdgeNorthEast || e == EdgeNorthWest }
func (e Edge) south() bool { return e == EdgeSouth || e == EdgeSouthEast || e == EdgeSouthWest }
func (e Edge) east() bool  { return e == EdgeEast || e == EdgeNorthEast || e == EdgeSouthEast }
func (e Edge) west() bool  { return e == EdgeWest || e == EdgeNorthWest || e == EdgeSouthWest }

// Config holds window geometry defaults
type Config struct {
	Origin      types.Point // position of the first window
	Cascade     int         // offset per already-open window, both axes
	DefaultSize types.Size
	MinSize     types.Size
	BaseZ       int // first z-order handed out
}

// DefaultConfig returns the stock desktop geometry
func DefaultConfig() Config {
	return Config{
		Origin:      types.Point{X: 100, Y: 100},
		Cascade:     30,
		DefaultSize: types.Size{Width: 700, Height: 600},
		MinSize:     types.Size{Width: 500, Height: 400},
		BaseZ:       10,
	}
}

// normalize keeps the default size at or above the floor
func (c Config) normalize() Config {
	c.DefaultSize.Width = max(c.DefaultSize.Width, c.MinSize.Width)
	c.DefaultSize.Height = max(c.DefaultSize.Height, c.MinSize.Height)
	return c
}

// Stats contains window manager statistics
type Stats struct {
	Total     int         `json:"total"`
	Minimized int         `json:"minimized"`
	Maximized int         `json:"maximized"`
	FocusedID id.WindowID `json:"focused_id,omitempty"`
	TopZ      int         `json:"top_z"`
}

// Notifier receives launch events. Implementations must not block.
type Notifier interface {
	Launched(event types.LaunchEvent)
}
