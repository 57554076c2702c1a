package notify

import (
	"sync"

	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/google/uuid"
)

// Subscriber is a connected client. Send must not block; it reports
// whether the message was accepted.
type Subscriber interface {
	Send(types.WSMessage) bool
}

// Hub broadcasts launch events to websocket subscribers
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]Subscriber
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]Subscriber)}
}

// Subscribe registers s under id and returns the function that removes it
func (h *Hub) Subscribe(id uuid.UUID, s Subscriber) func() {
	h.mu.Lock()
	h.subs[id] = s
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Len returns the number of subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Launched(e types.LaunchEvent) {
	msg := types.WSMessage{Type: "launched", Name: e.App, Path: e.Path, Event: &e}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		s.Send(msg)
	}
}
