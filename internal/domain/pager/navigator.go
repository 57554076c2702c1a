package pager

import (
	"math"
	"sync"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/frame"
	"github.com/GriffinCanCode/DualShell/backend/internal/domain/route"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/benbjohnson/clock"
)

// State is the gesture state of a Navigator
type State int

const (
	Idle State = iota
	Tracking
	DraggingHorizontal
	VerticalIgnored
	Settling
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case DraggingHorizontal:
		return "dragging_horizontal"
	case VerticalIgnored:
		return "vertical_ignored"
	case Settling:
		return "settling"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Swipe outcomes
const (
	OutcomeAdvance = "advance"
	OutcomeBack    = "back"
	OutcomeSnap    = "snap"
)

// Transform is one strip position update for the renderer
type Transform struct {
	Percent  float64
	Animate  bool // false while the finger is down
	Duration time.Duration
	Easing   string
}

// Observer receives navigator output. Methods are called with the
// navigator's lock held and must not call back into it.
type Observer interface {
	OnPage(index, total int)
	OnTransform(t Transform)
	OnSettled(index int)
}

// Options wires a Navigator to its collaborators
type Options struct {
	Router   route.Router
	Observer Observer
	Clock    clock.Clock
	Metrics  *monitoring.Metrics
	// Viewport seeds the width used before the first Mount or Resize
	Viewport types.Viewport
}

type nopObserver struct{}

func (nopObserver) OnPage(int, int)       {}
func (nopObserver) OnTransform(Transform) {}
func (nopObserver) OnSettled(int)         {}

// Navigator is the page-index state machine of one mounted home screen
type Navigator struct {
	mu       sync.Mutex
	cfg      Config
	clock    clock.Clock
	frames   *frame.Scheduler
	router   route.Router
	observer Observer
	metrics  *monitoring.Metrics

	total int
	page  int
	width int
	state State

	start  types.Point
	offset float64 // damped px offset of the live drag

	settle      Settle
	settleStart time.Time
	settleTimer *clock.Timer
	settleSeq   uint64
}

// NewNavigator creates a navigator over appCount apps
func NewNavigator(cfg Config, appCount int, opts Options) *Navigator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Router == nil {
		opts.Router = route.NewHistory(route.PagePath(0))
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	return &Navigator{
		cfg:      cfg,
		clock:    opts.Clock,
		frames:   frame.NewScheduler(opts.Clock, cfg.FrameInterval),
		router:   opts.Router,
		observer: opts.Observer,
		metrics:  opts.Metrics,
		total:    TotalPages(appCount, cfg.PageSize),
		width:    max(0, opts.Viewport.Width),
	}
}

// Mount adopts the page in path, clamped, and writes the canonical route
func (n *Navigator) Mount(path string, viewport types.Viewport) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Closed {
		return n.page
	}
	n.stopMotion()
	if viewport.Width > 0 {
		n.width = viewport.Width
	}
	n.state = Idle
	n.page = route.ParsePage(path, n.total)
	n.router.Replace(route.PagePath(n.page))
	n.observer.OnPage(n.page, n.total)
	n.observer.OnTransform(Transform{Percent: TrackOffset(n.page, 0, n.width)})
	return n.page
}

// Start records the touch point and begins tracking. A settle in progress
// is interrupted.
func (n *Navigator) Start(p types.Point) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Closed {
		return false
	}
	n.stopMotion()
	n.start = p
	n.offset = 0
	n.state = Tracking
	return true
}

// Move feeds a touch sample
func (n *Navigator) Move(p types.Point) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case Tracking:
		dx, dy := abs(p.X-n.start.X), abs(p.Y-n.start.Y)
		switch {
		case dx > dy && dx > n.cfg.Slop:
			n.state = DraggingHorizontal
		case dy >= dx && dy > n.cfg.Slop:
			n.state = VerticalIgnored
			return false
		default:
			return false
		}
	case DraggingHorizontal:
	default:
		return false
	}

	n.offset = DampOffset(float64(p.X-n.start.X), n.page, n.total, n.cfg.RubberBand)
	n.frames.Request(n.drawLive)
	return true
}

// drawLive is the frame callback for a drag in progress
func (n *Navigator) drawLive() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state != DraggingHorizontal {
		return
	}
	n.observer.OnTransform(Transform{Percent: TrackOffset(n.page, n.offset, n.width)})
}

// Release ends the gesture at p and returns the page it settles on
func (n *Navigator) Release(p types.Point) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case DraggingHorizontal:
	case Tracking, VerticalIgnored:
		n.state = Idle
		return n.page
	default:
		return n.page
	}

	n.frames.Cancel()
	from := TrackOffset(n.page, n.offset, n.width)
	distance := float64(n.start.X - p.X)
	next := n.page
	if n.width > 0 {
		next = n.cfg.Decide(distance, math.Abs(distance), n.page, n.total, n.width)
	}

	outcome := OutcomeSnap
	switch {
	case next > n.page:
		outcome = OutcomeAdvance
	case next < n.page:
		outcome = OutcomeBack
	}
	if n.metrics != nil {
		n.metrics.RecordSwipe(outcome)
	}

	n.setPage(next)
	n.beginSettle(from)
	return n.page
}

// Cancel abandons the gesture and settles back on the current page
func (n *Navigator) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch n.state {
	case DraggingHorizontal:
		n.frames.Cancel()
		n.beginSettle(TrackOffset(n.page, n.offset, n.width))
	case Tracking, VerticalIgnored:
		n.state = Idle
	}
}

// GoTo jumps to a page, clamped, as a page-indicator tap does
func (n *Navigator) GoTo(index int) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Closed {
		return n.page
	}
	from := n.positionLocked()
	n.stopMotion()
	n.setPage(ClampPage(index, n.total))
	n.beginSettle(from)
	return n.page
}

// SyncRoute adopts a page path changed outside the navigator. Non-page
// paths are ignored.
func (n *Navigator) SyncRoute(path string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Closed || !route.IsPagePath(path) {
		return n.page
	}
	next := route.ParsePage(path, n.total)
	if next == n.page && path == route.PagePath(next) {
		return n.page
	}
	from := n.positionLocked()
	n.stopMotion()
	n.setPage(next)
	n.beginSettle(from)
	return n.page
}

// Resize records the viewport; thresholds use the latest width
func (n *Navigator) Resize(viewport types.Viewport) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Closed || viewport.Width <= 0 {
		return
	}
	n.width = viewport.Width
}

// Close unmounts the navigator. Pending frames and settles are dropped and
// every later call is a no-op.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state == Closed {
		return
	}
	n.stopMotion()
	n.frames.Stop()
	n.state = Closed
}

// Page returns the current page index
func (n *Navigator) Page() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.page
}

// TotalPages returns the page count
func (n *Navigator) TotalPages() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.total
}

// State returns the gesture state
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Offset returns the damped live drag offset in px
func (n *Navigator) Offset() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.offset
}

// Position returns where the strip is now, in percent, following any
// settle animation in progress
func (n *Navigator) Position() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.positionLocked()
}

func (n *Navigator) positionLocked() float64 {
	switch n.state {
	case DraggingHorizontal:
		return TrackOffset(n.page, n.offset, n.width)
	case Settling:
		return n.settle.At(n.clock.Since(n.settleStart))
	default:
		return TrackOffset(n.page, 0, n.width)
	}
}

// setPage moves to page and mirrors it into the route (must hold lock)
func (n *Navigator) setPage(page int) {
	if page != n.page && n.metrics != nil {
		n.metrics.RecordPageChange()
	}
	n.page = page
	n.router.Replace(route.PagePath(page))
	n.observer.OnPage(page, n.total)
}

// beginSettle animates from the given offset to the current page (must hold lock)
func (n *Navigator) beginSettle(from float64) {
	n.offset = 0
	n.settle = SettleFor(n.cfg.ReducedMotion).Between(from, TrackOffset(n.page, 0, n.width))
	n.settleStart = n.clock.Now()
	n.state = Settling

	n.settleSeq++
	seq := n.settleSeq
	n.settleTimer = n.clock.AfterFunc(n.settle.Duration, func() { n.finishSettle(seq) })

	n.observer.OnTransform(Transform{
		Percent:  n.settle.To,
		Animate:  true,
		Duration: n.settle.Duration,
		Easing:   n.settle.Easing.CSS(),
	})
}

func (n *Navigator) finishSettle(seq uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.state != Settling || n.settleSeq != seq {
		return
	}
	n.settleTimer = nil
	n.state = Idle
	n.observer.OnSettled(n.page)
}

// stopMotion drops pending frames and any settle in flight (must hold lock)
func (n *Navigator) stopMotion() {
	n.frames.Cancel()
	n.settleSeq++
	if n.settleTimer != nil {
		n.settleTimer.Stop()
		n.settleTimer = nil
	}
	if n.state == Settling {
		n.state = Idle
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
