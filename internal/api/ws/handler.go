package ws

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/launch"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/pager"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/prefs"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/notify"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/utils"
	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types
const (
	TypeMount       = "mount"
	TypeTouchStart  = "touch_start"
	TypeTouchMove   = "touch_move"
	TypeTouchEnd    = "touch_end"
	TypeTouchCancel = "touch_cancel"
	TypeGoTo        = "go_to"
	TypeResize      = "resize"
	TypeRoute       = "route"
	TypeOpen        = "open"
	TypeBack        = "back"
	TypePing        = "ping"

	TypeWelcome   = "welcome"
	TypePage      = "page"
	TypeTransform = "transform"
	TypeSettled   = "settle"
	TypeNavigate  = "navigate"
	TypePong      = "pong"
	TypeError     = "error"
)

// Deps are the components a stream session drives
type Deps struct {
	Registry *registry.Registry
	Launcher *launch.Launcher
	Prefs    *prefs.Service
	Hub      *notify.Hub
	Metrics  *monitoring.Metrics
	Logger   *zap.Logger
	Pager    pager.Config
	Clock    clock.Clock
	// Viewport is assumed until a client reports its own
	Viewport types.Viewport
}

// Handler manages WebSocket connections
type Handler struct {
	registry *registry.Registry
	launcher *launch.Launcher
	prefs    *prefs.Service
	hub      *notify.Hub
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	pager    pager.Config
	clock    clock.Clock
	viewport types.Viewport
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[uuid.UUID]*session // Protected by mu
	closed   bool                   // Protected by mu
	active   sync.WaitGroup
}

// NewHandler creates a new WebSocket handler
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Pager.PageSize <= 0 {
		d.Pager = pager.DefaultConfig()
	}
	if d.Clock == nil {
		d.Clock = clock.New()
	}
	return &Handler{
		registry: d.Registry,
		launcher: d.Launcher,
		prefs:    d.Prefs,
		hub:      d.Hub,
		metrics:  d.Metrics,
		logger:   d.Logger,
		pager:    d.Pager,
		clock:    d.Clock,
		viewport: d.Viewport,
		sessions: make(map[uuid.UUID]*session),
		upgrader: websocket.Upgrader{
			// The shell is served from any origin in development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection handles WebSocket upgrade and runs the session
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(utils.MaxJSONSize)

	s := &session{
		id:      uuid.New(),
		conn:    conn,
		handler: h,
		out:     make(chan types.WSMessage, sendBuffer),
		done:    make(chan struct{}),
		home:    homeIDs(h.registry),
	}
	s.logger = h.logger.With(zap.String("conn", s.id.String()))
	if !h.track(s) {
		goAway(conn)
		_ = conn.Close()
		return
	}
	defer h.untrack(s)
	s.router = newRouter(s.Send)

	cfg := h.pager
	if h.prefs != nil {
		cfg.ReducedMotion = h.prefs.Get().ReducedMotion()
	}
	s.nav = pager.NewNavigator(cfg, len(s.home), pager.Options{
		Router:   s.router,
		Observer: s,
		Clock:    h.clock,
		Metrics:  h.metrics,
		Viewport: h.viewport,
	})

	if h.hub != nil {
		unsubscribe := h.hub.Subscribe(s.id, s)
		defer unsubscribe()
	}
	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}
	s.logger.Debug("Home screen connected")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.writePump()
	}()

	s.Send(types.WSMessage{
		Type:       TypeWelcome,
		Message:    "Connected to DualShell",
		TotalPages: pager.TotalPages(len(s.home), cfg.PageSize),
		Apps:       registry.IDs(h.registry.Dock()),
	})
	s.readLoop()

	s.nav.Close()
	close(s.done)
	wg.Wait()
	_ = conn.Close()
	s.logger.Debug("Home screen disconnected")
}

// track registers a live session; false once the handler is closed
func (h *Handler) track(s *session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.sessions[s.id] = s
	h.active.Add(1)
	return true
}

func (h *Handler) untrack(s *session) {
	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()
	h.active.Done()
}

// Len returns the number of live sessions
func (h *Handler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close sends every client a going-away frame, drops the connections and
// waits for their sessions to end. Later upgrades are refused.
func (h *Handler) Close(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.sessions))
	for _, s := range h.sessions {
		conns = append(conns, s.conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		goAway(conn)
		_ = conn.Close()
	}

	done := make(chan struct{})
	go func() {
		h.active.Wait()
		close(done)
	}()
	select {
	case <-done:
		h.logger.Info("Closed home screen sessions", zap.Int("count", len(conns)))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for websocket sessions: %w", ctx.Err())
	}
}

func goAway(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(writeWait))
}

func (h *Handler) recordMessage(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}
