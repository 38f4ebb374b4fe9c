// Package httpapi wires the HTTP transport (Gin) to the messenger service,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging with phone-number redaction, panic
// recovery, metrics, compression, CORS, and security headers.
//
// Design goals:
//   - One service behind two transports: the REST routes and the websocket
//     endpoint both call the same MessengerService.
//   - Safe-by-default middleware ordering (RequestID → logging → recovery).
//   - Deterministic, minimal router setup; all dependencies injected.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-messenger-backend/internal/config"
	"github.com/tbourn/go-messenger-backend/internal/http/handlers"
	"github.com/tbourn/go-messenger-backend/internal/http/middleware"
	"github.com/tbourn/go-messenger-backend/internal/http/ws"
	"github.com/tbourn/go-messenger-backend/internal/hub"
	"github.com/tbourn/go-messenger-backend/internal/services"
)

// RegisterRoutes attaches all middleware and endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with phone/id scrubbing
//  4. Recovery: capture panics after logging is in place
//  5. Body size limiter
//  6. Metrics
//  7. Gzip (REST only concerns; websocket upgrades bypass it via the
//     /ws exclusion)
//  8. CORS and security headers
func RegisterRoutes(r *gin.Engine, svc *services.MessengerService, registry *hub.Hub, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (256 KiB is generous for text messages)
	r.Use(limitBody(256 << 10))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compression; hijacked websocket connections must not be wrapped
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws"})))

	// 8) CORS posture: allow-all by default, allowlist when configured
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Live-connection channel
	r.GET("/ws", ws.Handler(registry, svc, ws.Options{
		SendBuffer:     cfg.WSSendBuffer,
		WriteTimeout:   cfg.WSWriteTimeout,
		OriginPatterns: cfg.CORS.AllowedOrigins,
	}))

	// REST surface
	h := handlers.New(svc)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Users and contacts
		api.GET("/users", h.ListUsers)
		api.GET("/contacts", h.GetContacts)

		// Chats
		api.GET("/chats/:contact", h.GetHistory)
		api.POST("/chats", h.StartChat)

		// Messages
		api.POST("/messages", h.SendMessage)
		api.POST("/messages/:id/seen", h.MarkSeen)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints using http.MaxBytesReader. Requests exceeding the cap will cause
// downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
