package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/thornfield-systems/behavior-guard/internal/api/rest"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/engine"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/evaluator"
	"github.com/thornfield-systems/behavior-guard/internal/fraud/mlscorer"
	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/cache"
	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/config"
	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/instrumentation"
	"github.com/thornfield-systems/behavior-guard/internal/infrastructure/telemetry"
	"github.com/thornfield-systems/behavior-guard/internal/metrics"
	"github.com/thornfield-systems/behavior-guard/internal/ratelimit"
	"github.com/thornfield-systems/behavior-guard/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := telemetry.SetupLogger(cfg.LogLevel)
	if err != nil {
		slog.Error("failed to setup logger", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting behavior-guard",
		"version", cfg.Version,
		"environment", cfg.Environment,
		"port", cfg.Server.Port)

	otelProvider, err := telemetry.InitializeOpenTelemetry(ctx, &telemetry.Config{
		ServiceName:    "behavior-guard",
		ServiceVersion: cfg.Version,
		Environment:    string(cfg.Environment),
		OTLPEndpoint:   cfg.OTel.OTLPEndpoint,
		Enabled:        cfg.OTel.Enabled,
		SamplingRate:   cfg.OTel.SamplingRate,
		ExportTimeout:  30 * time.Second,
		BatchTimeout:   5 * time.Second,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown failed", "error", err)
		}
	}()

	registry, err := metrics.NewRegistry("behaviorguard")
	if err != nil {
		return fmt.Errorf("initializing metrics registry: %w", err)
	}

	sessions := storage.NewInMemorySessionStore()
	signals := storage.NewInMemorySignalStore()

	analyses, err := newAnalysisStore(cfg, logger)
	if err != nil {
		return err
	}

	limiter, err := newLimiter(cfg, logger)
	if err != nil {
		return err
	}

	var scorer mlscorer.Scorer
	if cfg.Evaluator.MLScorerEnabled {
		scorer = mlscorer.NewMock()
	}
	eval := evaluator.New(engine.New(nil), scorer, cfg.Evaluator.ModelVersion)
	tracedEval := instrumentation.NewEvaluatorTracedService(eval, telemetry.NewOpenTelemetryTracer("behaviorguard.evaluator"), registry)

	handlers := rest.NewHandlers(sessions, signals, analyses, limiter, tracedEval, registry, cfg, logger)
	router := rest.NewRouter(handlers, registry, cfg, logger)
	server := rest.NewServer(router, cfg, logger)

	return server.Start(ctx)
}

func newAnalysisStore(cfg *config.Config, logger *slog.Logger) (storage.AnalysisStore, error) {
	store := storage.NewInMemoryAnalysisStore()
	if !cfg.Cache.Enabled {
		return store, nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting analysis cache to redis: %w", err)
	}
	zapLogger, err := newZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return cache.NewAnalysisCache(client, zapLogger, store, cfg.Cache.TTL), nil
}

func newLimiter(cfg *config.Config, logger *slog.Logger) (ratelimit.Limiter, error) {
	if cfg.RateLimit.Backend != "redis" {
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequestsPerMinute), nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	zapLogger, err := newZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return ratelimit.NewRedisLimiter(client, zapLogger, cfg.RateLimit.MaxRequestsPerMinute), nil
}

func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	opts.Password = cfg.Redis.Password
	opts.DB = cfg.Redis.DB
	opts.PoolSize = cfg.Redis.PoolSize
	opts.MinIdleConns = cfg.Redis.MinIdleConns
	opts.MaxRetries = cfg.Redis.MaxRetries
	opts.DialTimeout = cfg.Redis.DialTimeout
	opts.ReadTimeout = cfg.Redis.ReadTimeout
	opts.WriteTimeout = cfg.Redis.WriteTimeout
	return redis.NewClient(opts), nil
}

func newZapLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level.SetLevel(zap.InfoLevel)
	}
	return cfg.Build()
}
