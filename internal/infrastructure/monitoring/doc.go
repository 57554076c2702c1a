/*
Package monitoring provides Prometheus metrics for the shell backend.

# Overview

Metrics live on a private registry so tests can create as many collectors
as they like without colliding on the default one.

# Features

- HTTP request metrics (latency, throughput, size)
- Window lifecycle metrics (opens, re-activations, open count)
- Launch metrics and notification delivery
- Home screen paging (swipe outcomes, page changes)
- Key-value store writes per namespace
- WebSocket connection metrics

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "webhook")
	err := deliver(event)
	timer.Stop(err)
*/
package monitoring
