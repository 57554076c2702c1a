package ws

import (
	"strings"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/pager"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/registry"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/route"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// session is one connected home screen
type session struct {
	id      uuid.UUID
	conn    *websocket.Conn
	handler *Handler
	logger  *zap.Logger

	out  chan types.WSMessage
	done chan struct{}

	router *clientRouter
	nav    *pager.Navigator
	home   []string
}

// Send queues msg for the client without blocking
func (s *session) Send(msg types.WSMessage) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.out <- msg:
		return true
	default:
		s.logger.Warn("Client too slow, dropping message", zap.String("type", msg.Type))
		return false
	}
}

func (s *session) OnPage(index, total int) {
	page := index
	s.Send(types.WSMessage{
		Type:       TypePage,
		Page:       &page,
		TotalPages: total,
		Apps:       pager.PageSlice(s.home, index, s.handler.pager.PageSize),
	})
}

func (s *session) OnTransform(t pager.Transform) {
	percent, animate := t.Percent, t.Animate
	s.Send(types.WSMessage{
		Type:       TypeTransform,
		Percent:    &percent,
		Animate:    &animate,
		DurationMS: t.Duration.Milliseconds(),
		Easing:     t.Easing,
	})
}

func (s *session) OnSettled(index int) {
	page := index
	s.Send(types.WSMessage{Type: TypeSettled, Page: &page})
}

// writePump owns all writes to the connection
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.out:
			data, err := sonic.Marshal(msg)
			if err != nil {
				s.logger.Error("Failed to encode message", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("WebSocket write failed", zap.Error(err))
				_ = s.conn.Close()
				return
			}
			s.handler.recordMessage("out", msg.Type)
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = s.conn.Close()
				return
			}
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// readLoop dispatches client messages until the connection fails
func (s *session) readLoop() {
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			s.sendError("malformed message")
			continue
		}
		s.handler.recordMessage("in", msg.Type)
		s.dispatch(msg)
	}
}

func (s *session) dispatch(msg types.WSMessage) {
	point := types.Point{X: msg.X, Y: msg.Y}

	switch msg.Type {
	case TypeMount:
		path := msg.Path
		if path == "" {
			path = s.router.Current()
		}
		s.nav.Mount(path, types.Viewport{Width: msg.Width, Height: msg.Height})
	case TypeTouchStart:
		s.nav.Start(point)
	case TypeTouchMove:
		s.nav.Move(point)
	case TypeTouchEnd:
		s.nav.Release(point)
	case TypeTouchCancel:
		s.nav.Cancel()
	case TypeGoTo:
		if msg.Page == nil {
			s.sendError("go_to needs a page")
			return
		}
		s.nav.GoTo(*msg.Page)
	case TypeResize:
		s.nav.Resize(types.Viewport{Width: msg.Width, Height: msg.Height})
	case TypeRoute:
		if msg.Path == "" {
			s.sendError("route needs a path")
			return
		}
		s.nav.SyncRoute(msg.Path)
	case TypeOpen:
		if _, ok := s.handler.launcher.Open(s.router, msg.Name, s.nav.Page()+1); !ok {
			s.sendError("unknown app: " + msg.Name)
		}
	case TypeBack:
		_, rawQuery, _ := strings.Cut(s.router.Current(), "?")
		s.nav.SyncRoute(s.handler.launcher.Back(s.router, rawQuery, true))
	case TypePing:
		s.Send(types.WSMessage{Type: TypePong})
	default:
		s.sendError("unknown message type")
	}
}

func (s *session) sendError(message string) {
	s.Send(types.WSMessage{Type: TypeError, Message: message})
}

func homeIDs(reg *registry.Registry) []string {
	return registry.IDs(reg.Home())
}

func newRouter(send func(types.WSMessage) bool) *clientRouter {
	return &clientRouter{history: route.NewHistory(route.PagePath(0)), send: send}
}
