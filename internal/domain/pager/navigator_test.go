package pager

import (
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/domain/route"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homeApps = 15 // three pages of six

var phone = types.Viewport{Width: 1000, Height: 2000}

type recorder struct {
	mu         sync.Mutex
	pages      []int
	transforms []Transform
	settled    []int
}

func (r *recorder) OnPage(index, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, index)
}

func (r *recorder) OnTransform(t Transform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms = append(r.transforms, t)
}

func (r *recorder) OnSettled(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settled = append(r.settled, index)
}

func (r *recorder) live() []Transform {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Transform{}
	for _, t := range r.transforms {
		if !t.Animate {
			out = append(out, t)
		}
	}
	return out
}

func (r *recorder) settledCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.settled)
}

type fixture struct {
	nav     *Navigator
	history *route.History
	clock   *clock.Mock
	rec     *recorder
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		history: route.NewHistory("/"),
		clock:   clock.NewMock(),
		rec:     &recorder{},
	}
	f.nav = NewNavigator(cfg, homeApps, Options{Router: f.history, Observer: f.rec, Clock: f.clock})
	return f
}

// swipe drags horizontally from x0 to x1 and releases there
func (f *fixture) swipe(x0, x1 int) int {
	f.nav.Start(types.Point{X: x0, Y: 300})
	step := 10
	if x1 < x0 {
		step = -10
	}
	for x := x0 + step; (step > 0 && x < x1) || (step < 0 && x > x1); x += step {
		f.nav.Move(types.Point{X: x, Y: 301})
	}
	f.nav.Move(types.Point{X: x1, Y: 301})
	return f.nav.Release(types.Point{X: x1, Y: 301})
}

func TestMountClampsRoute(t *testing.T) {
	tests := []struct {
		path      string
		wantPage  int
		wantRoute string
	}{
		{"/pages/999", 2, "/pages/3"},
		{"/pages/abc", 0, "/pages/1"},
		{"/pages/2", 1, "/pages/2"},
		{"/", 0, "/pages/1"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := newFixture(DefaultConfig())

			assert.Equal(t, tt.wantPage, f.nav.Mount(tt.path, phone))
			assert.Equal(t, tt.wantRoute, f.history.Current())
			assert.Equal(t, 1, f.history.Len(), "route is written as a replace")
			assert.Equal(t, 3, f.nav.TotalPages())
		})
	}
}

func TestGoToRoundTrip(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)

	assert.Equal(t, 2, f.nav.GoTo(2))
	assert.Equal(t, "/pages/3", f.history.Current())

	reloaded := newFixture(DefaultConfig())
	assert.Equal(t, 2, reloaded.nav.Mount(f.history.Current(), phone))
}

func TestGoToClamps(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)

	assert.Equal(t, 2, f.nav.GoTo(10))
	assert.Equal(t, 0, f.nav.GoTo(-3))
	assert.Equal(t, "/pages/1", f.history.Current())
}

func TestSwipeCommitRule(t *testing.T) {
	tests := []struct {
		name string
		from int
		to   int
		want int
	}{
		{"260px advances", 700, 440, 1},
		{"160px flick advances", 700, 540, 1},
		{"90px snaps back", 700, 610, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(DefaultConfig())
			f.nav.Mount("/pages/1", phone)

			assert.Equal(t, tt.want, f.swipe(tt.from, tt.to))
			assert.Equal(t, route.PagePath(tt.want), f.history.Current())
			assert.Equal(t, Settling, f.nav.State())
		})
	}
}

func TestSwipeBackToPreviousPage(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/2", phone)

	assert.Equal(t, 0, f.swipe(200, 500))
	assert.Equal(t, "/pages/1", f.history.Current())
}

func TestSettleReturnsToIdle(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)
	f.swipe(700, 400)

	f.rec.mu.Lock()
	last := f.rec.transforms[len(f.rec.transforms)-1]
	f.rec.mu.Unlock()
	assert.True(t, last.Animate)
	assert.Equal(t, -100.0, last.Percent)
	assert.Equal(t, 350*time.Millisecond, last.Duration)

	mid := f.nav.Position()
	assert.Greater(t, mid, -100.0)

	f.clock.Add(350 * time.Millisecond)
	require.Eventually(t, func() bool { return f.nav.State() == Idle }, time.Second, time.Millisecond)
	assert.Equal(t, -100.0, f.nav.Position())
	assert.Equal(t, 1, f.rec.settledCount())
}

func TestReducedMotionSettle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReducedMotion = true
	f := newFixture(cfg)
	f.nav.Mount("/pages/1", phone)
	f.swipe(700, 400)

	f.rec.mu.Lock()
	last := f.rec.transforms[len(f.rec.transforms)-1]
	f.rec.mu.Unlock()
	assert.Equal(t, 200*time.Millisecond, last.Duration)
	assert.Equal(t, "ease-out", last.Easing)

	f.clock.Add(200 * time.Millisecond)
	require.Eventually(t, func() bool { return f.nav.State() == Idle }, time.Second, time.Millisecond)
}

func TestDirectionLock(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)
	liveBefore := len(f.rec.live())

	f.nav.Start(types.Point{X: 500, Y: 300})
	assert.False(t, f.nav.Move(types.Point{X: 503, Y: 302}), "inside the slop")
	assert.Equal(t, Tracking, f.nav.State())

	assert.False(t, f.nav.Move(types.Point{X: 506, Y: 320}))
	assert.Equal(t, VerticalIgnored, f.nav.State())

	assert.False(t, f.nav.Move(types.Point{X: 100, Y: 320}), "vertical gestures never page")
	assert.Equal(t, 0, f.nav.Release(types.Point{X: 100, Y: 320}))
	assert.Equal(t, Idle, f.nav.State())

	f.clock.Add(time.Second)
	assert.Len(t, f.rec.live(), liveBefore)
}

func TestEqualDeltaIsVertical(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)

	f.nav.Start(types.Point{X: 0, Y: 0})
	f.nav.Move(types.Point{X: 8, Y: 8})
	assert.Equal(t, VerticalIgnored, f.nav.State())
}

func TestRubberBand(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)

	f.nav.Start(types.Point{X: 100, Y: 300})
	f.nav.Move(types.Point{X: 300, Y: 300})
	assert.Equal(t, 50.0, f.nav.Offset(), "0.25 of the raw 200px pull")

	last := newFixture(DefaultConfig())
	last.nav.Mount("/pages/3", phone)
	last.nav.Start(types.Point{X: 500, Y: 300})
	last.nav.Move(types.Point{X: 300, Y: 300})
	assert.Equal(t, -50.0, last.nav.Offset())

	middle := newFixture(DefaultConfig())
	middle.nav.Mount("/pages/2", phone)
	middle.nav.Start(types.Point{X: 100, Y: 300})
	middle.nav.Move(types.Point{X: 300, Y: 300})
	assert.Equal(t, 200.0, middle.nav.Offset())
}

func TestLiveTransformsCoalesce(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/2", phone)
	before := len(f.rec.live())

	f.nav.Start(types.Point{X: 500, Y: 300})
	for x := 490; x >= 300; x -= 10 {
		f.nav.Move(types.Point{X: x, Y: 300})
	}

	f.clock.Add(frameStep)
	require.Eventually(t, func() bool { return len(f.rec.live()) == before+1 }, time.Second, time.Millisecond)

	live := f.rec.live()
	assert.Equal(t, -120.0, live[len(live)-1].Percent, "newest offset wins")

	f.clock.Add(10 * frameStep)
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, f.rec.live(), before+1)
}

const frameStep = 16 * time.Millisecond

func TestCancelSettlesOnCurrentPage(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)

	f.nav.Start(types.Point{X: 800, Y: 300})
	f.nav.Move(types.Point{X: 300, Y: 300})
	f.nav.Cancel()

	assert.Equal(t, 0, f.nav.Page())
	assert.Equal(t, Settling, f.nav.State())
	assert.Equal(t, "/pages/1", f.history.Current())
}

func TestCloseStopsEverything(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)
	liveBefore := len(f.rec.live())

	f.nav.Start(types.Point{X: 500, Y: 300})
	f.nav.Move(types.Point{X: 400, Y: 300})
	f.nav.Close()

	f.clock.Add(time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, f.rec.live(), liveBefore, "pending frame was cancelled")

	assert.Equal(t, 0, f.nav.GoTo(2))
	assert.Equal(t, 0, f.nav.SyncRoute("/pages/3"))
	assert.False(t, f.nav.Start(types.Point{}))
	assert.Equal(t, 0, f.nav.Release(types.Point{}))
	assert.Equal(t, "/pages/1", f.history.Current())
	assert.Equal(t, Closed, f.nav.State())
}

func TestCloseDuringSettle(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)
	f.swipe(700, 400)
	f.nav.Close()

	f.clock.Add(time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, Closed, f.nav.State())
	assert.Zero(t, f.rec.settledCount())
}

func TestResizeChangesThreshold(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)
	f.nav.Resize(types.Viewport{Width: 400, Height: 800})

	assert.Equal(t, 1, f.swipe(300, 180), "120px clears 0.25 of 400")
}

func TestSyncRoute(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)

	assert.Equal(t, 1, f.nav.SyncRoute("/pages/2"))
	assert.Equal(t, 1, f.nav.SyncRoute("/notes?fromPage=2"), "app routes are ignored")
	assert.Equal(t, 2, f.nav.SyncRoute("/pages/77"))
	assert.Equal(t, "/pages/3", f.history.Current())
}

func TestStartInterruptsSettle(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.nav.Mount("/pages/1", phone)
	f.swipe(700, 400)

	require.True(t, f.nav.Start(types.Point{X: 500, Y: 300}))
	assert.Equal(t, Tracking, f.nav.State())

	f.clock.Add(time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, f.rec.settledCount(), "interrupted settle never completes")
}

func TestSeededViewportBeforeMount(t *testing.T) {
	history := route.NewHistory("/pages/1")
	nav := NewNavigator(DefaultConfig(), homeApps, Options{
		Router:   history,
		Clock:    clock.NewMock(),
		Viewport: phone,
	})

	nav.Start(types.Point{X: 200, Y: 0})
	require.True(t, nav.Move(types.Point{X: 193, Y: 0}))
	assert.Equal(t, 0, nav.Release(types.Point{X: 193, Y: 0}), "7px is far below 0.25 of 1000")

	nav.Start(types.Point{X: 700, Y: 0})
	nav.Move(types.Point{X: 400, Y: 0})
	assert.InDelta(t, -30.0, nav.Position(), 1e-9, "live offset tracks the seeded width")
	assert.Equal(t, 1, nav.Release(types.Point{X: 400, Y: 0}))
	assert.Equal(t, "/pages/2", history.Current())
}

func TestUnknownWidthNeverCommits(t *testing.T) {
	f := newFixture(DefaultConfig())

	assert.Equal(t, 0, f.swipe(700, 100))
	assert.Equal(t, 0, f.nav.Page())
}
