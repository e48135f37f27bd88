package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/firmtemplate/firm-api/config"
	"github.com/firmtemplate/firm-api/internal/cache"
	"github.com/firmtemplate/firm-api/internal/exitintent"
	"github.com/firmtemplate/firm-api/internal/handlers"
	"github.com/firmtemplate/firm-api/internal/leads"
	"github.com/firmtemplate/firm-api/internal/middleware"
	"github.com/firmtemplate/firm-api/internal/services"
	"github.com/firmtemplate/firm-api/pkg/httpclient"
	"github.com/firmtemplate/firm-api/pkg/logger"
	"github.com/firmtemplate/firm-api/pkg/metrics"
	"github.com/firmtemplate/firm-api/pkg/profiling"
	"github.com/firmtemplate/firm-api/pkg/tracing"
)

// durableStateTTL outlives the longest cooldown so a returning visitor is still recognised
const durableStateTTL = 8 * 24 * time.Hour

// exitIntentStorage builds the session and durable backends. Without REDIS_URL the durable
// backend is in-memory and does not survive restarts.
func exitIntentStorage(cfg *config.Config, redisClient *redis.Client) exitintent.StorageSelector {
	session := cache.NewSessionStore(time.Duration(cfg.ExitIntent.SessionTTLMinutes) * time.Minute)

	if redisClient == nil {
		logger.Warn("REDIS_URL not set, exit intent day/week state is kept in memory")
		return exitintent.StorageSelector{
			Session: session,
			Durable: cache.NewSessionStore(durableStateTTL),
		}
	}

	return exitintent.StorageSelector{
		Session: session,
		Durable: cache.NewRedisStore(redisClient, "", durableStateTTL),
	}
}

// leadSink posts leads to LEAD_WEBHOOK_URL when set, otherwise only logs them
func leadSink(cfg *config.Config) services.LeadSink {
	if cfg.Leads.WebhookURL == "" {
		return services.LogLeadSink{}
	}

	return leads.NewWebhookSink(
		leads.WebhookConfig{URL: cfg.Leads.WebhookURL, Secret: cfg.Leads.WebhookSecret},
		httpclient.NewStandardClient(time.Duration(cfg.Leads.WebhookTimeoutSeconds)*time.Second),
	)
}

func buildDeps(cfg *config.Config, redisClient *redis.Client) routerDeps {
	schedulingService := services.NewSchedulingService(cfg.SchedulingInput())
	videoService := services.NewVideoService()
	contactService := services.NewContactService(
		cache.NewSubmissionLimiter(cfg.Contact.RateLimitPerHour, time.Hour),
		leadSink(cfg),
	)
	exitIntentService := services.NewExitIntentService(
		exitIntentStorage(cfg, redisClient),
		services.ExitIntentSettings{
			DefaultFrequency: cfg.ExitIntentFrequency(),
			StorageKey:       cfg.ExitIntent.StorageKey,
			AllowedPaths:     cfg.ExitIntent.AllowedPaths,
			BlockedPaths:     cfg.ExitIntent.BlockedPaths,
		},
	)

	checks := map[string]handlers.HealthCheck{}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	return routerDeps{
		scheduling: handlers.NewSchedulingHandler(schedulingService),
		video:      handlers.NewVideoHandler(videoService),
		contact:    handlers.NewContactHandler(contactService),
		exitIntent: handlers.NewExitIntentHandler(exitIntentService),
		health:     handlers.NewHealthHandler(checks),

		generalRateLimiter: middleware.NewRateLimiter(50, 100), // 50 req/sec, burst of 100
		contactRateLimiter: middleware.NewRateLimiter(1, 5),    // 1 req/sec, burst of 5
	}
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting firm API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Settings{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiling, err := profiling.Start(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer stopProfiling()

	// Start infrastructure metrics collection
	stopMetrics := make(chan struct{})
	defer close(stopMetrics)
	metrics.RecordInfrastructureMetrics(stopMetrics)

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = cache.NewRedisClient(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("Failed to configure Redis", zap.Error(err))
		}
		defer func() {
			if closeErr := redisClient.Close(); closeErr != nil {
				logger.Error("Failed to close Redis client", zap.Error(closeErr))
			}
		}()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
			// Exit intent storage fails soft, so an unreachable Redis only degrades the prompt.
			logger.Warn("Redis not reachable at startup", zap.Error(pingErr))
		}
		cancel()
	}

	deps := buildDeps(cfg, redisClient)
	defer deps.generalRateLimiter.Stop()
	defer deps.contactRateLimiter.Stop()

	gin.SetMode(cfg.Server.GinMode)
	router := newRouter(cfg, deps)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
