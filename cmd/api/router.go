package main

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/firmtemplate/firm-api/config"
	"github.com/firmtemplate/firm-api/internal/handlers"
	"github.com/firmtemplate/firm-api/internal/middleware"
)

// routerDeps carries the handlers and limiters the router wires together
type routerDeps struct {
	scheduling *handlers.SchedulingHandler
	video      *handlers.VideoHandler
	contact    *handlers.ContactHandler
	exitIntent *handlers.ExitIntentHandler
	health     *handlers.HealthHandler

	generalRateLimiter *middleware.RateLimiter
	contactRateLimiter *middleware.RateLimiter
}

// newRouter builds the gin engine with global middleware and all routes
func newRouter(cfg *config.Config, deps routerDeps) *gin.Engine {
	handlers.RegisterJSONFieldNames()

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))

	// CORS configuration - only the site's own origins
	allowedOrigins := slices.Clone(cfg.Server.AllowedOrigins)
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Sec-CH-UA-Mobile", middleware.RequestIDHeader, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Rejects missing, malformed and oversized Content-Length before any handler reads the body
	router.Use(middleware.BodySizeLimitMiddleware(cfg.Server.MaxBodySizeBytes))

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", deps.generalRateLimiter.Middleware(), deps.health.Healthcheck)
	api.GET("/metrics", deps.generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/scheduling", deps.generalRateLimiter.Middleware(), deps.scheduling.GetScheduling)
	v1.POST("/video/resolve", deps.generalRateLimiter.Middleware(), deps.video.Resolve)
	v1.POST("/contact", deps.contactRateLimiter.Middleware(), deps.contact.Submit)
	v1.POST("/contact/validate", deps.generalRateLimiter.Middleware(), deps.contact.Validate)
	v1.POST("/exit-intent/decide", deps.generalRateLimiter.Middleware(), deps.exitIntent.Decide)
	v1.POST("/exit-intent/shown", deps.generalRateLimiter.Middleware(), deps.exitIntent.MarkShown)

	return router
}
