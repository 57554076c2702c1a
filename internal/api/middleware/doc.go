// Package middleware provides the HTTP middleware of the shell API.
//
// Middleware stack:
//   - RequestID: tags every request with a prefixed ULID
//   - AccessLog: one structured log line per request
//   - CORS: cross-origin resource sharing with configurable origins
//   - RateLimit: per-IP token buckets, idle clients evicted
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.AccessLog(logger))
//	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
