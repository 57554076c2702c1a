package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/DualShell/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const sinkWebhook = "webhook"

// ErrWebhookClosed is returned by Start after Close
var ErrWebhookClosed = errors.New("webhook sink closed")

// WebhookConfig configures the webhook sink
type WebhookConfig struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 means unlimited
	QueueSize         int
	Retries           int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	Breaker           resilience.Settings
}

// DefaultWebhookConfig returns the delivery defaults for url
func DefaultWebhookConfig(url string) WebhookConfig {
	return WebhookConfig{
		URL:               url,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 10,
		QueueSize:         256,
		Retries:           2,
		RetryWaitMin:      200 * time.Millisecond,
		RetryWaitMax:      2 * time.Second,
		Breaker: resilience.Settings{
			Probes:   1,
			Window:   time.Minute,
			Cooldown: 30 * time.Second,
		},
	}
}

// Webhook posts launch events to an HTTP endpoint
type Webhook struct {
	cfg     WebhookConfig
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer

	queue chan types.LaunchEvent
	done  chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped uint64
	wg      sync.WaitGroup
}

// NewWebhook creates a webhook sink. Call Start to begin delivering.
func NewWebhook(cfg WebhookConfig, logger *zap.Logger, metrics *monitoring.Metrics) *Webhook {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = max(cfg.Retries, 0)
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "DualShell-Notify/1.0").
		SetJSONMarshaler(sonic.Marshal)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}

	breakerSettings := cfg.Breaker
	breakerSettings.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("Webhook circuit changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	return &Webhook{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		breaker: resilience.New(sinkWebhook, breakerSettings),
		logger:  logger,
		metrics: metrics,
		queue:   make(chan types.LaunchEvent, cfg.QueueSize),
		done:    make(chan struct{}),
	}
}

// WithTracer records a span per delivery and propagates its trace headers
func (w *Webhook) WithTracer(t *tracing.Tracer) *Webhook {
	w.tracer = t
	return w
}

// Launched queues an event; when the queue is full the event is dropped
func (w *Webhook) Launched(e types.LaunchEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	select {
	case w.queue <- e:
	default:
		w.dropped++
		w.logger.Warn("Webhook queue full, dropping event", zap.String("app", e.App))
		if w.metrics != nil {
			w.metrics.RecordNotify(sinkWebhook+"_dropped", nil)
		}
	}
}

// Start runs the delivery worker until ctx ends or Close is called
func (w *Webhook) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWebhookClosed
	}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.done:
				w.drain(ctx)
				return
			case e := <-w.queue:
				w.deliver(ctx, e)
			}
		}
	}()
	return nil
}

// drain delivers what is already queued
func (w *Webhook) drain(ctx context.Context) {
	for {
		select {
		case e := <-w.queue:
			w.deliver(ctx, e)
		default:
			return
		}
	}
}

func (w *Webhook) deliver(ctx context.Context, e types.LaunchEvent) {
	var span *tracing.Span
	if w.tracer != nil {
		span, ctx = w.tracer.Start(ctx, "webhook.post")
		span.SetTag("app", e.App)
	}

	timer := monitoring.NewTimer(w.metrics, sinkWebhook)
	err := w.breaker.Do(ctx, func(ctx context.Context) error {
		if err := w.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		return w.post(ctx, e)
	})
	timer.Stop(err)
	if span != nil {
		span.End(err)
	}

	if err != nil {
		w.logger.Warn("Webhook delivery failed",
			zap.String("app", e.App),
			zap.String("breaker", w.breaker.State().String()),
			zap.Error(err),
		)
	}
}

func (w *Webhook) post(ctx context.Context, e types.LaunchEvent) error {
	req := w.client.R()
	tracing.Inject(ctx, req.Header)
	resp, err := req.
		SetContext(ctx).
		SetBody(e).
		Post(w.cfg.URL)
	if err != nil {
		return fmt.Errorf("post launch event: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("post launch event: status %d", resp.StatusCode())
	}
	return nil
}

// Close stops accepting events, delivers the queue and waits for the worker
func (w *Webhook) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	w.wg.Wait()
}

// Dropped returns how many events were dropped on a full queue
func (w *Webhook) Dropped() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

// BreakerState returns the circuit breaker state
func (w *Webhook) BreakerState() resilience.State {
	return w.breaker.State()
}
