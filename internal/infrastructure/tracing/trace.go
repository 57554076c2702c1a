package tracing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/shared/id"
	"go.uber.org/zap"
)

// Propagation headers
const (
	TraceHeader = "X-Trace-ID"
	SpanHeader  = "X-Span-ID"
)

const bufferSize = 1000

// Span is a single timed operation in a trace
type Span struct {
	TraceID  string
	SpanID   string
	ParentID string
	Name     string
	Start    time.Time
	Duration time.Duration
	Tags     map[string]string
	Err      error

	tracer *Tracer
	once   sync.Once
}

// Tracer collects finished spans
type Tracer struct {
	service string
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.RWMutex
	closed  bool
	spans   chan *Span
	wg      sync.WaitGroup
	dropped uint64
}

// New creates a tracer and starts its collector
func New(service string, logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		service: service,
		logger:  logger,
		now:     time.Now,
		spans:   make(chan *Span, bufferSize),
	}
	t.wg.Add(1)
	go t.collect()
	return t
}

// Start opens a span under whatever span ctx already carries
func (t *Tracer) Start(ctx context.Context, name string) (*Span, context.Context) {
	parent := fromContext(ctx)
	traceID := parent.traceID
	if traceID == "" {
		traceID = id.NewRequestID().String()
	}

	s := &Span{
		TraceID:  traceID,
		SpanID:   id.NewRequestID().String(),
		ParentID: parent.spanID,
		Name:     name,
		Start:    t.now(),
		Tags:     make(map[string]string),
		tracer:   t,
	}
	return s, withIDs(ctx, traceID, s.SpanID)
}

// SetTag annotates the span
func (s *Span) SetTag(key, value string) {
	s.Tags[key] = value
}

// End finishes the span and submits it. Later calls do nothing.
func (s *Span) End(err error) {
	s.once.Do(func() {
		s.Duration = s.tracer.now().Sub(s.Start)
		s.Err = err
		s.tracer.submit(s)
	})
}

func (t *Tracer) submit(s *Span) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return
	}
	select {
	case t.spans <- s:
	default:
		t.dropped++
		t.logger.Warn("Span buffer full, dropping span",
			zap.String("trace_id", s.TraceID),
			zap.String("operation", s.Name),
		)
	}
}

func (t *Tracer) collect() {
	defer t.wg.Done()
	for s := range t.spans {
		t.log(s)
	}
}

func (t *Tracer) log(s *Span) {
	fields := []zap.Field{
		zap.String("trace_id", s.TraceID),
		zap.String("span_id", s.SpanID),
		zap.String("operation", s.Name),
		zap.Duration("duration", s.Duration),
		zap.String("service", t.service),
	}
	if s.ParentID != "" {
		fields = append(fields, zap.String("parent_id", s.ParentID))
	}
	for k, v := range s.Tags {
		fields = append(fields, zap.String(k, v))
	}

	if s.Err != nil {
		t.logger.Warn("Span failed", append(fields, zap.Error(s.Err))...)
		return
	}
	t.logger.Debug("Span completed", fields...)
}

// Close stops accepting spans and waits for the collector to log the rest
func (t *Tracer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.spans)
	t.mu.Unlock()

	t.wg.Wait()
}

type contextKey struct{}

type ids struct {
	traceID string
	spanID  string
}

func withIDs(ctx context.Context, traceID, spanID string) context.Context {
	return context.WithValue(ctx, contextKey{}, ids{traceID: traceID, spanID: spanID})
}

func fromContext(ctx context.Context) ids {
	v, _ := ctx.Value(contextKey{}).(ids)
	return v
}

// TraceID returns the trace ctx belongs to, or ""
func TraceID(ctx context.Context) string {
	return fromContext(ctx).traceID
}

// Inject writes the trace context of ctx into outbound headers
func Inject(ctx context.Context, h http.Header) {
	v := fromContext(ctx)
	if v.traceID == "" {
		return
	}
	h.Set(TraceHeader, v.traceID)
	h.Set(SpanHeader, v.spanID)
}

// Extract reads inbound trace headers into ctx
func Extract(ctx context.Context, h http.Header) context.Context {
	traceID := h.Get(TraceHeader)
	if traceID == "" {
		return ctx
	}
	return withIDs(ctx, traceID, h.Get(SpanHeader))
}
