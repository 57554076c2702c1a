package route

import "sync"

// History is an in-memory Router with a browser-like stack
type History struct {
	mu      sync.Mutex
	entries []string
	index   int
	subs    map[int]func(string)
	nextSub int
}

// NewHistory starts a history at path
func NewHistory(path string) *History {
	if path == "" {
		path = "/"
	}
	return &History{
		entries: []string{path},
		subs:    make(map[int]func(string)),
	}
}

// Push adds path after the current entry, dropping any forward entries
func (h *History) Push(path string) {
	h.mu.Lock()
	h.entries = append(h.entries[:h.index+1], path)
	h.index++
	subs := h.snapshotSubs()
	h.mu.Unlock()

	notify(subs, path)
}

// Replace overwrites the current entry
func (h *History) Replace(path string) {
	h.mu.Lock()
	if h.entries[h.index] == path {
		h.mu.Unlock()
		return
	}
	h.entries[h.index] = path
	subs := h.snapshotSubs()
	h.mu.Unlock()

	notify(subs, path)
}

// Back moves to the previous entry; at the first entry it does nothing
func (h *History) Back() {
	h.mu.Lock()
	if h.index == 0 {
		h.mu.Unlock()
		return
	}
	h.index--
	path := h.entries[h.index]
	subs := h.snapshotSubs()
	h.mu.Unlock()

	notify(subs, path)
}

// Current returns the path of the current entry
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.entries[h.index]
}

// Len returns the number of entries up to and including the current one
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.index + 1
}

// Subscribe registers fn for every path change and returns its cancel func
func (h *History) Subscribe(fn func(path string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := h.nextSub
	h.nextSub++
	h.subs[key] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, key)
	}
}

// snapshotSubs copies subscribers so they run without the lock (must hold lock)
func (h *History) snapshotSubs() []func(string) {
	out := make([]func(string), 0, len(h.subs))
	for _, fn := range h.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(string), path string) {
	for _, fn := range subs {
		fn(path)
	}
}
