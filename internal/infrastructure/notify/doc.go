// Package notify delivers "app launched" events.
//
// Every sink implements Sink and must return immediately: launches are
// fire-and-forget and never wait on delivery.
//
// Sinks:
//   - Log: writes each event to the logger
//   - Webhook: POSTs events as JSON from a background worker, rate limited
//     and guarded by a circuit breaker; a full queue drops events
//   - Hub: fans events out to connected websocket clients
//   - Multi: forwards to several sinks
package notify
