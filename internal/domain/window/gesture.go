package window

import (
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/id"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
)

type gestureKind int

const (
	gestureDrag gestureKind = iota
	gestureResize
)

// gesture is the snapshot taken when a drag or resize begins
type gesture struct {
	kind    gestureKind
	edge    Edge
	pointer types.Point
	start   types.Rect
}

// BeginDrag starts moving a window. Ignored while maximized.
func (m *Manager) BeginDrag(windowID id.WindowID, pointer types.Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[windowID]
	if !ok || s.Maximized {
		return false
	}
	m.gestures[windowID] = &gesture{kind: gestureDrag, pointer: pointer, start: s.rect()}
	return true
}

// UpdateDrag moves the window to its start position plus the total pointer delta
func (m *Manager) UpdateDrag(windowID id.WindowID, pointer types.Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, g := m.active(windowID, gestureDrag)
	if g == nil || s.Maximized {
		return false
	}
	s.Position = g.start.Origin().Add(pointer.Sub(g.pointer))
	return true
}

// EndDrag keeps the last position
func (m *Manager) EndDrag(windowID id.WindowID) bool {
	return m.finish(windowID, gestureDrag, false)
}

// CancelDrag puts the window back where the drag started
func (m *Manager) CancelDrag(windowID id.WindowID) bool {
	return m.finish(windowID, gestureDrag, true)
}

// BeginResize starts resizing from the given handle. Ignored while maximized.
func (m *Manager) BeginResize(windowID id.WindowID, edge Edge, pointer types.Point) bool {
	if _, ok := ParseEdge(string(edge)); !ok {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[windowID]
	if !ok || s.Maximized {
		return false
	}
	m.gestures[windowID] = &gesture{kind: gestureResize, edge: edge, pointer: pointer, start: s.rect()}
	return true
}

// UpdateResize applies the total pointer delta to the snapshot, clamped to the floor
func (m *Manager) UpdateResize(windowID id.WindowID, pointer types.Point) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, g := m.active(windowID, gestureResize)
	if g == nil || s.Maximized {
		return false
	}
	r := Resize(g.start, g.edge, pointer.Sub(g.pointer), m.cfg.MinSize)
	s.Position, s.Size = r.Origin(), r.Size()
	return true
}

// EndResize keeps the last geometry
func (m *Manager) EndResize(windowID id.WindowID) bool {
	return m.finish(windowID, gestureResize, false)
}

// CancelResize restores the geometry from before the resize
func (m *Manager) CancelResize(windowID id.WindowID) bool {
	return m.finish(windowID, gestureResize, true)
}

// active returns the session and its gesture of the given kind (must hold lock)
func (m *Manager) active(windowID id.WindowID, kind gestureKind) (*Session, *gesture) {
	s, ok := m.sessions[windowID]
	if !ok {
		return nil, nil
	}
	g, ok := m.gestures[windowID]
	if !ok || g.kind != kind {
		return nil, nil
	}
	return s, g
}

func (m *Manager) finish(windowID id.WindowID, kind gestureKind, rollback bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, g := m.active(windowID, kind)
	if g == nil {
		return false
	}
	if rollback {
		s.Position, s.Size = g.start.Origin(), g.start.Size()
	}
	delete(m.gestures, windowID)
	return true
}

// Resize computes the rectangle produced by dragging edge of start by delta.
// Width and height never drop below floor. West and north edges move the
// origin so the east and south edges stay anchored.
func Resize(start types.Rect, edge Edge, delta types.Point, floor types.Size) types.Rect {
	r := start
	if edge.east() {
		r.Width = max(floor.Width, start.Width+delta.X)
	}
	if edge.west() {
		r.Width = max(floor.Width, start.Width-delta.X)
		r.X = start.X + start.Width - r.Width
	}
	if edge.south() {
		r.Height = max(floor.Height, start.Height+delta.Y)
	}
	if edge.north() {
		r.Height = max(floor.Height, start.Height-delta.Y)
		r.Y = start.Y + start.Height - r.Height
	}
	return r
}
