package middleware

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/DualShell/backend/internal/infrastructure/tracing"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsMaxAge is how long browsers may cache a preflight answer
const corsMaxAge = 12 * time.Hour

// CORS lets the shell frontend call the API from another origin. With no
// origins every origin is accepted; credentials are never allowed.
func CORS(origins []string) gin.HandlerFunc {
	shellHeaders := []string{RequestIDHeader, tracing.TraceHeader}

	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: append([]string{
			"Origin",
			"Accept",
			"Content-Type",
			"Content-Length",
			"Cache-Control",
		}, shellHeaders...),
		ExposeHeaders:   shellHeaders,
		AllowWebSockets: true,
		MaxAge:          corsMaxAge,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
