/*
Package tracing records lightweight spans for requests and outbound calls.

Spans carry a trace ID shared by everything done for one request and a span
ID of their own. Finished spans are handed to a buffered collector that logs
them; a full buffer drops spans rather than slowing the caller.

# Usage

	tracer := tracing.New("backend", logger)
	defer tracer.Close()

	router.Use(tracing.Middleware(tracer))

	span, ctx := tracer.Start(ctx, "webhook.post")
	tracing.Inject(ctx, req.Header)
	span.End(err)

# Trace Format

Trace context travels in the X-Trace-ID and X-Span-ID headers.
*/
package tracing
