package window

import (
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/id"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"go.uber.org/zap"
)

const untitled = "Untitled"

// Manager orchestrates window sessions
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	sessions map[id.WindowID]*Session // Protected by mu
	byTitle  map[string]id.WindowID   // Protected by mu
	gestures map[id.WindowID]*gesture // Protected by mu
	focused  id.WindowID              // Protected by mu
	lastZ    int                      // last z-order handed out, protected by mu

	notifier Notifier
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	now      func() time.Time
	newID    func() id.WindowID
}

// NewManager creates a new window manager
func NewManager(cfg Config) *Manager {
	cfg = cfg.normalize()
	return &Manager{
		cfg:      cfg,
		sessions: make(map[id.WindowID]*Session),
		byTitle:  make(map[string]id.WindowID),
		gestures: make(map[id.WindowID]*gesture),
		lastZ:    cfg.BaseZ - 1,
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    id.NewWindowID,
	}
}

// WithNotifier sets the launch event sink
func (m *Manager) WithNotifier(n Notifier) *Manager {
	m.notifier = n
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithLogger sets the component logger
func (m *Manager) WithLogger(logger *zap.Logger) *Manager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Config returns the geometry defaults in use
func (m *Manager) Config() Config {
	return m.cfg
}

// nextZ hands out a fresh z-order (must hold lock)
func (m *Manager) nextZ() int {
	m.lastZ++
	return m.lastZ
}

// raise makes s the focused, topmost window unless it already is (must hold lock)
func (m *Manager) raise(s *Session) {
	s.Minimized = false
	if s.ZIndex != m.lastZ {
		s.ZIndex = m.nextZ()
	}
	m.focused = s.ID
}

// cascadeOrigin returns the first cascade step, counting from the number of
// open windows, that no open window sits on (must hold lock)
func (m *Manager) cascadeOrigin() types.Point {
	taken := make(map[types.Point]bool, len(m.sessions))
	for _, s := range m.sessions {
		taken[s.Position] = true
	}
	step := len(m.sessions)
	origin := m.cfg.Origin.Add(types.Point{X: step * m.cfg.Cascade, Y: step * m.cfg.Cascade})
	for i := 0; taken[origin] && i <= len(m.sessions) && m.cfg.Cascade != 0; i++ {
		step++
		origin = m.cfg.Origin.Add(types.Point{X: step * m.cfg.Cascade, Y: step * m.cfg.Cascade})
	}
	return origin
}

// Open launches a window for title, or re-activates the one already open.
// The returned flag reports whether an existing session was reused.
func (m *Manager) Open(title string, metadata map[string]any) (Session, bool) {
	if title == "" {
		title = untitled
	}

	m.mu.Lock()
	var (
		s      *Session
		reused bool
	)
	if existing, ok := m.byTitle[title]; ok {
		s = m.sessions[existing]
		reused = true
		m.raise(s)
	} else {
		s = &Session{
			ID:        m.newID(),
			Title:     title,
			Position:  m.cascadeOrigin(),
			Size:      m.cfg.DefaultSize,
			Metadata:  maps.Clone(metadata),
			CreatedAt: m.now(),
		}
		s.ZIndex = m.nextZ()
		m.sessions[s.ID] = s
		m.byTitle[title] = s.ID
		m.focused = s.ID
	}
	out := s.clone()
	open := len(m.sessions)
	m.mu.Unlock()

	m.logger.Debug("Window opened",
		zap.String("id", out.ID.String()),
		zap.String("title", title),
		zap.Bool("reused", reused),
		zap.Int("z", out.ZIndex),
	)
	if m.metrics != nil {
		m.metrics.RecordWindowOpen(reused)
		m.metrics.SetWindowsOpen(open)
	}
	if m.notifier != nil {
		m.notifier.Launched(types.LaunchEvent{
			Source:   types.SourceDesktop,
			App:      title,
			WindowID: out.ID.String(),
			Reused:   reused,
			Metadata: metadata,
			At:       m.now(),
		})
	}

	return out, reused
}

// Get retrieves a session by ID
func (m *Manager) Get(windowID id.WindowID) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[windowID]
	if !ok {
		return Session{}, false
	}
	return s.clone(), true
}

// FindByTitle retrieves the session open for title
func (m *Manager) FindByTitle(title string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	windowID, ok := m.byTitle[title]
	if !ok {
		return Session{}, false
	}
	return m.sessions[windowID].clone(), true
}

// List returns all sessions in stacking order, bottom first
func (m *Manager) List() []Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Focus un-minimizes a window and raises it to the top
func (m *Manager) Focus(windowID id.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[windowID]
	if !ok {
		return false
	}
	m.raise(s)
	return true
}

// Minimize hides a window without touching its z-order
func (m *Manager) Minimize(windowID id.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[windowID]
	if !ok {
		return false
	}
	s.Minimized = true
	if m.focused == windowID {
		m.focused = ""
	}
	return true
}

// Restore un-minimizes a window without raising it
func (m *Manager) Restore(windowID id.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[windowID]
	if !ok {
		return false
	}
	s.Minimized = false
	return true
}

// ToggleMaximize flips the maximized flag; geometry is untouched
func (m *Manager) ToggleMaximize(windowID id.WindowID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[windowID]
	if !ok {
		return false
	}
	s.Maximized = !s.Maximized
	return true
}

// Close destroys a window
func (m *Manager) Close(windowID id.WindowID) bool {
	m.mu.Lock()
	ok := m.closeWindow(windowID)
	open := len(m.sessions)
	m.mu.Unlock()

	if ok && m.metrics != nil {
		m.metrics.SetWindowsOpen(open)
	}
	return ok
}

// CloseAll destroys every window and returns how many were closed
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	n := len(m.sessions)
	for windowID := range m.sessions {
		m.closeWindow(windowID)
	}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetWindowsOpen(0)
	}
	return n
}

// closeWindow removes a session and any gesture in flight (must hold lock)
func (m *Manager) closeWindow(windowID id.WindowID) bool {
	s, ok := m.sessions[windowID]
	if !ok {
		return false
	}
	delete(m.sessions, windowID)
	delete(m.byTitle, s.Title)
	delete(m.gestures, windowID)
	if m.focused == windowID {
		m.focused = ""
	}
	return true
}

// Stats returns manager statistics
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{
		Total:     len(m.sessions),
		FocusedID: m.focused,
	}
	if len(m.sessions) > 0 {
		stats.TopZ = m.lastZ
	}
	for _, s := range m.sessions {
		if s.Minimized {
			stats.Minimized++
		}
		if s.Maximized {
			stats.Maximized++
		}
	}
	return stats
}
