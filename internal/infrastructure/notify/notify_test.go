package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func event(app string) types.LaunchEvent {
	return types.LaunchEvent{Source: types.SourceMobile, App: app, Path: "/" + app, At: time.Unix(1700000000, 0).UTC()}
}

func testConfig(url string) WebhookConfig {
	cfg := DefaultWebhookConfig(url)
	cfg.Timeout = time.Second
	cfg.RequestsPerSecond = 0
	cfg.Retries = 0
	return cfg
}

func TestWebhookDeliversJSON(t *testing.T) {
	received := make(chan types.LaunchEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		var e types.LaunchEvent
		assert.NoError(t, sonic.Unmarshal(body, &e))
		received <- e
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	metrics := monitoring.NewMetrics()
	hook := NewWebhook(testConfig(srv.URL), nil, metrics)
	require.NoError(t, hook.Start(context.Background()))
	defer hook.Close()

	hook.Launched(event("notes"))

	select {
	case e := <-received:
		assert.Equal(t, "notes", e.App)
		assert.Equal(t, types.SourceMobile, e.Source)
		assert.Equal(t, "/notes", e.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook never delivered")
	}
}

func TestWebhookLaunchedNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.QueueSize = 1
	hook := NewWebhook(cfg, nil, nil)
	require.NoError(t, hook.Start(context.Background()))

	start := time.Now()
	for range 10 {
		hook.Launched(event("camera"))
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)
	assert.GreaterOrEqual(t, hook.Dropped(), uint64(8))

	close(release)
	hook.Close()
}

func TestWebhookBreakerStopsCallingDeadEndpoint(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Breaker = resilience.Settings{
		Cooldown:   time.Hour,
		ShouldTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 2 },
	}
	hook := NewWebhook(cfg, nil, nil)
	require.NoError(t, hook.Start(context.Background()))

	for _, app := range []string{"a", "b", "c", "d"} {
		hook.Launched(event(app))
	}
	hook.Close()

	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, resilience.StateOpen, hook.BreakerState())
}

func TestWebhookClosed(t *testing.T) {
	hook := NewWebhook(testConfig("http://127.0.0.1:0"), nil, nil)
	hook.Close()
	hook.Close()

	hook.Launched(event("notes"))
	assert.ErrorIs(t, hook.Start(context.Background()), ErrWebhookClosed)
}

type recorder struct {
	mu   sync.Mutex
	msgs []types.WSMessage
}

func (r *recorder) Send(m types.WSMessage) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
	return true
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func TestHubBroadcasts(t *testing.T) {
	hub := NewHub()
	a, b := &recorder{}, &recorder{}
	hub.Subscribe(uuid.New(), a)
	unsubscribe := hub.Subscribe(uuid.New(), b)
	require.Equal(t, 2, hub.Len())

	hub.Launched(event("maps"))
	unsubscribe()
	hub.Launched(event("phone"))

	assert.Equal(t, 2, a.count())
	assert.Equal(t, 1, b.count())
	assert.Equal(t, "launched", a.msgs[0].Type)
	require.NotNil(t, a.msgs[1].Event)
	assert.Equal(t, "phone", a.msgs[1].Event.App)
}

func TestMultiAndLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	hub := NewHub()
	rec := &recorder{}
	hub.Subscribe(uuid.New(), rec)

	sink := Multi{NewLog(zap.New(core)), nil, hub}
	sink.Launched(types.LaunchEvent{Source: types.SourceDesktop, App: "Notes", WindowID: "win_1", Reused: true})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "App launched", entry.Message)
	assert.Equal(t, "Notes", entry.ContextMap()["app"])
	assert.Equal(t, true, entry.ContextMap()["reused"])
	assert.Equal(t, 1, rec.count())
}
