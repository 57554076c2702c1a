package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*Tracer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New("test", zap.New(core)), logs
}

func TestChildSpanSharesTrace(t *testing.T) {
	tracer, logs := newObserved()

	root, ctx := tracer.Start(context.Background(), "root")
	child, childCtx := tracer.Start(ctx, "child")

	assert.Equal(t, root.TraceID, child.TraceID)
	assert.Equal(t, root.SpanID, child.ParentID)
	assert.Empty(t, root.ParentID)
	assert.Equal(t, root.TraceID, TraceID(childCtx))

	child.End(errors.New("boom"))
	child.End(nil)
	root.End(nil)
	tracer.Close()

	assert.Equal(t, 1, logs.FilterMessage("Span failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Span completed").Len(), "ending twice submits once")
}

func TestInjectExtract(t *testing.T) {
	tracer, _ := newObserved()
	defer tracer.Close()

	h := http.Header{}
	Inject(context.Background(), h)
	assert.Empty(t, h.Get(TraceHeader), "no trace, no headers")

	span, ctx := tracer.Start(context.Background(), "op")
	Inject(ctx, h)
	assert.Equal(t, span.TraceID, h.Get(TraceHeader))
	assert.Equal(t, span.SpanID, h.Get(SpanHeader))

	remote, _ := tracer.Start(Extract(context.Background(), h), "remote")
	assert.Equal(t, span.TraceID, remote.TraceID)
	assert.Equal(t, span.SpanID, remote.ParentID)
}

func TestMiddlewareContinuesTrace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, logs := newObserved()

	var seen string
	router := gin.New()
	router.Use(Middleware(tracer))
	router.GET("/windows", func(c *gin.Context) {
		seen = TraceID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/windows", nil)
	req.Header.Set(TraceHeader, "trace-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	tracer.Close()

	assert.Equal(t, "trace-1", seen)
	assert.Equal(t, "trace-1", w.Header().Get(TraceHeader))
	entries := logs.FilterMessage("Span completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "GET /windows", entries[0].ContextMap()["operation"])
	assert.Equal(t, "204", entries[0].ContextMap()["http.status"])
}

func TestSubmitAfterCloseIsIgnored(t *testing.T) {
	tracer, logs := newObserved()
	span, _ := tracer.Start(context.Background(), "late")
	tracer.Close()
	tracer.Close()

	span.End(nil)
	assert.Equal(t, 0, logs.Len())
}
