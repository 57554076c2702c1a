package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		// Label by route template so /windows/:id stays one series
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(max(c.Writer.Size(), 0))

		metrics.RecordHTTPRequest(method, path, status, time.Since(start), reqSize, respSize)
	}
}

// Timer measures one notification delivery
type Timer struct {
	start   time.Time
	metrics *Metrics
	sink    string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, sink string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		sink:    sink,
	}
}

// Stop records the duration and the delivery outcome
func (t *Timer) Stop(err error) {
	if t.metrics == nil {
		return
	}
	t.metrics.NotifyDuration.WithLabelValues(t.sink).Observe(time.Since(t.start).Seconds())
	t.metrics.RecordNotify(t.sink, err)
}
