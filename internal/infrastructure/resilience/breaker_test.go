package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func succeed(context.Context) error { return nil }
func fail(context.Context) error    { return errBoom }

func newBreaker(settings Settings) (*Breaker, *clock.Mock) {
	mock := clock.NewMock()
	settings.Clock = mock
	if settings.ShouldTrip == nil {
		settings.ShouldTrip = func(c Counts) bool { return c.ConsecutiveFailures >= 3 }
	}
	return New("test", settings), mock
}

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		calls         []bool // true = success
		expectedState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"stays closed below threshold", []bool{false, false, true, false, false}, StateClosed},
		{"opens after consecutive failures", []bool{false, false, false}, StateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newBreaker(Settings{Cooldown: time.Minute})
			ctx := context.Background()

			for _, ok := range tt.calls {
				if ok {
					_ = b.Do(ctx, succeed)
				} else {
					_ = b.Do(ctx, fail)
				}
			}
			assert.Equal(t, tt.expectedState, b.State())
		})
	}
}

func TestBreakerCounts(t *testing.T) {
	b, _ := newBreaker(Settings{})
	ctx := context.Background()

	require.NoError(t, b.Do(ctx, succeed))
	counts := b.Counts()
	assert.Equal(t, uint32(1), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalSuccesses)
	assert.Equal(t, uint32(1), counts.ConsecutiveSuccesses)

	assert.ErrorIs(t, b.Do(ctx, fail), errBoom)
	counts = b.Counts()
	assert.Equal(t, uint32(2), counts.Requests)
	assert.Equal(t, uint32(1), counts.TotalFailures)
	assert.Equal(t, uint32(1), counts.ConsecutiveFailures)
	assert.Zero(t, counts.ConsecutiveSuccesses)
}

func TestBreakerRejectsWhileOpen(t *testing.T) {
	b, _ := newBreaker(Settings{Cooldown: time.Minute})
	ctx := context.Background()
	for range 3 {
		_ = b.Do(ctx, fail)
	}

	called := false
	err := b.Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	var transitions []string
	b, mock := newBreaker(Settings{
		Probes:   2,
		Cooldown: 30 * time.Second,
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})
	ctx := context.Background()
	for range 3 {
		_ = b.Do(ctx, fail)
	}

	mock.Add(29 * time.Second)
	assert.Equal(t, StateOpen, b.State())

	mock.Add(time.Second)
	assert.Equal(t, StateHalfOpen, b.State())

	require.NoError(t, b.Do(ctx, succeed))
	assert.Equal(t, StateHalfOpen, b.State(), "needs every probe to succeed")
	require.NoError(t, b.Do(ctx, succeed))
	assert.Equal(t, StateClosed, b.State())

	assert.Equal(t, []string{"closed>open", "open>half-open", "half-open>closed"}, transitions)
}

func TestBreakerHalfOpenLimitsProbes(t *testing.T) {
	b, mock := newBreaker(Settings{Probes: 1, Cooldown: time.Second})
	ctx := context.Background()
	for range 3 {
		_ = b.Do(ctx, fail)
	}
	mock.Add(time.Second)

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Do(ctx, func(context.Context) error {
			<-release
			return nil
		})
	}()
	require.Eventually(t, func() bool { return b.Counts().Requests == 1 }, time.Second, time.Millisecond)

	assert.ErrorIs(t, b.Do(ctx, succeed), ErrTooManyRequests)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b, mock := newBreaker(Settings{Cooldown: time.Second})
	ctx := context.Background()
	for range 3 {
		_ = b.Do(ctx, fail)
	}
	mock.Add(time.Second)

	assert.ErrorIs(t, b.Do(ctx, fail), errBoom)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerWindowClearsCounts(t *testing.T) {
	b, mock := newBreaker(Settings{Window: time.Minute})
	ctx := context.Background()
	_ = b.Do(ctx, fail)
	_ = b.Do(ctx, fail)

	mock.Add(time.Minute)
	_ = b.Do(ctx, fail)

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(1), b.Counts().ConsecutiveFailures)
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	b, _ := newBreaker(Settings{})
	ctx := context.Background()

	for range 5 {
		err := b.Do(ctx, func(context.Context) error { return context.Canceled })
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(5), b.Counts().TotalSuccesses)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b, _ := newBreaker(Settings{})

	assert.Panics(t, func() {
		_ = b.Do(context.Background(), func(context.Context) error { panic("kaboom") })
	})
	assert.Equal(t, uint32(1), b.Counts().TotalFailures)
}
