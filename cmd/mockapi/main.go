package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neurostream/protocolengine/internal/adapters/catalog"
	"github.com/neurostream/protocolengine/internal/api/handlers"
	"github.com/neurostream/protocolengine/internal/api/routes"
	"github.com/neurostream/protocolengine/internal/application/services"
	"github.com/neurostream/protocolengine/internal/infrastructure/observability"
	"github.com/neurostream/protocolengine/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-mockapi", cfg.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// The server always answers from the embedded mock data.
	stack, err := catalog.NewStack(ctx, cfg, metrics, true)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize protocol data")
	}
	defer stack.Close()

	if cfg.Cache.WarmOnStart {
		warmer := services.NewCacheWarmingService(
			stack.API,
			services.NewSymptomResolver(services.DefaultReferenceData()).Diagnoses(),
			services.ParseComparisonSets(cfg.Cache.WarmComparisons),
		)
		if err := warmer.WarmCache(ctx); err != nil {
			logger.Warn().Err(err).Msg("Cache warming incomplete")
		}
	}

	checks := map[string]handlers.Pinger{}
	if stack.Redis != nil {
		checks["redis"] = stack.Redis
	}

	router := routes.NewRouter(
		handlers.NewProtocolHandler(stack.API),
		handlers.NewHealthHandler(checks),
		cfg.CORS.AllowedOrigins,
		cfg.Cache.CatalogTTLSeconds,
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.ServerAddr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Mock protocol API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	logger.Info().Msg("Server stopped")
}
