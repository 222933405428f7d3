// Package main is the entry point for the inventory service. It wires all
// dependencies using samber/do v2, optionally seeds the store, starts the
// HTTP server, and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/pallet-inventory/internal/adapters/http"
	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/http/middleware"

	"github.com/jsamuelsen11/pallet-inventory/internal/adapters/store/memory"
	redisstore "github.com/jsamuelsen11/pallet-inventory/internal/adapters/store/redis"
	"github.com/jsamuelsen11/pallet-inventory/internal/app"
	"github.com/jsamuelsen11/pallet-inventory/internal/app/seed"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/config"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/health"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/logging"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/telemetry"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr,
		slog.String("service", cfg.Telemetry.ServiceName),
		slog.String("profile", profile),
		slog.String("store", cfg.Store.Driver),
	)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired. The in-memory store
	// has nothing to check.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	if cfg.Store.Driver == config.StoreDriverRedis {
		registry.Register(do.MustInvoke[*redisstore.Store](injector))
	}

	if cfg.Seed.Enabled {
		svc := do.MustInvoke[ports.InventoryService](injector)
		if _, err := seed.New(cfg.Seed.RandomSeed, logger).Seed(ctx, svc, cfg.Seed.Pallets); err != nil {
			return fmt.Errorf("seeding inventory: %w", err)
		}
	}

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	if cfg.Store.Driver == config.StoreDriverRedis {
		if err := do.MustInvoke[*goredis.Client](injector).Close(); err != nil {
			logger.Error("redis close error", slog.Any("error", err))
		}
	}

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*goredis.Client, error) {
		return redisstore.NewClient(&cfg.Store.Redis), nil
	})

	do.Provide(injector, func(i do.Injector) (*redisstore.Store, error) {
		client := do.MustInvoke[*goredis.Client](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return redisstore.New(client, &cfg.Store, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.InventoryStore, error) {
		switch cfg.Store.Driver {
		case config.StoreDriverRedis:
			return do.MustInvoke[*redisstore.Store](i), nil
		case config.StoreDriverMemory:
			return memory.New(), nil
		default:
			return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
		}
	})

	do.Provide(injector, func(i do.Injector) (ports.InventoryService, error) {
		store := do.MustInvoke[ports.InventoryStore](i)
		return app.NewInventoryService(store, cfg.Inventory.BulkMaxWorkers, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(health.WithCheckTimeout(cfg.Server.HealthCheckTimeout)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.PalletHandler, error) {
		svc := do.MustInvoke[ports.InventoryService](i)
		return handlers.NewPalletHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ReportHandler, error) {
		svc := do.MustInvoke[ports.InventoryService](i)
		return handlers.NewReportHandler(svc, cfg.Inventory.DefaultTopCount), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		palletH := do.MustInvoke[*handlers.PalletHandler](i)
		reportH := do.MustInvoke[*handlers.ReportHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(palletH, reportH, healthH,
			middleware.Recovery(logger),
			middleware.RateLimit(cfg.Server.RateLimit),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.RequestTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
