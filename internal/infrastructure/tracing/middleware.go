package tracing

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Middleware opens a span per request, continuing any trace the caller sent
func Middleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := Extract(c.Request.Context(), c.Request.Header)

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}
		span, ctx := tracer.Start(ctx, c.Request.Method+" "+name)
		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceHeader, span.TraceID)

		c.Next()

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last
		}
		span.SetTag("http.status", strconv.Itoa(c.Writer.Status()))
		span.End(err)
	}
}
