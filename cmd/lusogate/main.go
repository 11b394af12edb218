package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lusogate/internal/api"
	"lusogate/internal/config"
	"lusogate/internal/guard"
	"lusogate/internal/i18n"
	"lusogate/internal/logger"
	"lusogate/internal/models"
	"lusogate/internal/observability"
	"lusogate/internal/parser"
	"lusogate/internal/ratelimit"
	"lusogate/internal/schema"
	"lusogate/internal/storage"
	"lusogate/internal/version"
)

var (
	configFile   = flag.String("config", "", "Path to configuration file")
	writeExample = flag.String("write-example", "", "Write an example configuration file to this path and exit")
	showVersion  = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	info := version.GetInfo()
	if *showVersion {
		fmt.Println(info.String())
		return
	}
	if *writeExample != "" {
		if err := config.SaveExample(*writeExample); err != nil {
			slog.Error("Failed to write example configuration", "error", err)
			os.Exit(1)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logging
	log, closer, err := logger.Setup(cfg.Logging, info)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	slog.SetDefault(log)

	// Initialize observability (OpenTelemetry)
	otelProvider, err := observability.Setup(cfg.Metrics, cfg.Observability, info)
	if err != nil {
		slog.Error("Failed to initialize observability", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shutdown observability", "error", err)
		}
	}()

	// Rate limit counters
	counterStore, err := initializeCounterStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize counter store", "error", err)
		os.Exit(1)
	}
	defer counterStore.Close()

	// Submission storage
	submissionStore, err := storage.NewFactory().Create(cfg.Storage)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer submissionStore.Close()

	// Wrap stores with instrumentation if metrics are enabled
	activeCounters := counterStore
	activeStorage := submissionStore
	guardOpts := []guard.Option{guard.WithLogger(log)}
	if cfg.Metrics.Enabled {
		instrumentedCounters, err := observability.NewInstrumentedStore(counterStore)
		if err != nil {
			slog.Error("Failed to create instrumented counter store", "error", err)
			os.Exit(1)
		}
		activeCounters = instrumentedCounters

		instrumentedStorage, err := observability.NewInstrumentedStorage(submissionStore)
		if err != nil {
			slog.Error("Failed to create instrumented storage", "error", err)
			os.Exit(1)
		}
		activeStorage = instrumentedStorage

		guardMetrics, err := observability.NewGuardMetrics()
		if err != nil {
			slog.Error("Failed to create guard metrics", "error", err)
			os.Exit(1)
		}
		guardOpts = append(guardOpts, guard.WithRecorder(guardMetrics))
	}

	// Request guard
	catalog, err := i18n.New(cfg.Validation.DefaultLanguage)
	if err != nil {
		slog.Error("Failed to load message catalog", "error", err)
		os.Exit(1)
	}
	validator, err := schema.New(cfg.Validation, catalog)
	if err != nil {
		slog.Error("Failed to initialize schema validator", "error", err)
		os.Exit(1)
	}
	endpoints, err := api.NewEndpoints(cfg.Validation)
	if err != nil {
		slog.Error("Failed to build endpoint checks", "error", err)
		os.Exit(1)
	}
	requestGuard := guard.New(
		ratelimit.NewLimiter(activeCounters),
		cfg.RateLimit,
		parser.New(cfg.Validation),
		validator,
		catalog,
		guardOpts...,
	)

	handlers := api.NewHandlers(activeStorage,
		api.WithCounterStore(activeCounters),
		api.WithVersion(info),
	)

	// Setup routes with middleware
	routeOpts := []api.RouteOption{}
	if cfg.Observability.Tracing.Enabled {
		routeOpts = append(routeOpts, api.WithOTelMiddleware(cfg.Observability.ServiceName))
	}
	router := api.SetupRoutes(handlers, requestGuard, endpoints, cfg, routeOpts...)

	// Start metrics server if enabled
	var metricsServer *observability.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer = observability.NewMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path, otelProvider)
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting server",
			"addr", server.Addr,
			"counter_store", cfg.CounterStore.Type,
			"storage", cfg.Storage.Type,
			"rate_limit_enabled", cfg.RateLimit.Enabled)

		var err error
		if cfg.Server.TLSEnabled {
			err = server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("Metrics server forced to shutdown", "error", err)
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server shutdown complete")
}

// initializeCounterStore creates the rate limit counter store. Memory
// counters are per process; Redis counters are shared by every replica.
func initializeCounterStore(cfg *models.Config) (ratelimit.Store, error) {
	switch cfg.CounterStore.Type {
	case models.CounterStoreRedis:
		s, err := ratelimit.NewRedisStore(cfg.CounterStore.Redis)
		if err != nil {
			return nil, err
		}
		return s, nil
	case models.CounterStoreMemory:
		return ratelimit.NewMemoryStore(cfg.RateLimit.CleanupInterval, cfg.RateLimit.IdleTimeout), nil
	default:
		return nil, fmt.Errorf("unsupported counter store type: %s", cfg.CounterStore.Type)
	}
}
