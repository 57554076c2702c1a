// Package main is the entry point for the DualShell backend server.
//
// The server hosts the state behind a browser shell that renders either a
// desktop (windows and draggable icons) or a phone-style home screen
// (swipeable app pages and a dock):
//   - REST API for windows, icons, the app registry and preferences
//   - WebSocket stream driving the home screen pager
//   - Launch events fanned out to logs, stream clients and a webhook
//   - Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Optional TOML tuning file for geometry and gesture thresholds
//
// Usage:
//
//	# Persist icon positions and preferences
//	./server -port 8000 -store /var/lib/dualshell/state.json
//
//	# Development mode (console logs, debug level)
//	./server -dev -log-level debug
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
