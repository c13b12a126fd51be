// Package app wires configuration, providers, mirrors and status surfaces
// around a job.Supervisor for one collection run.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tokenpulse/internal/bot"
	"tokenpulse/internal/cache"
	"tokenpulse/internal/config"
	"tokenpulse/internal/dataset"
	"tokenpulse/internal/db"
	"tokenpulse/internal/handler"
	"tokenpulse/internal/job"
	"tokenpulse/internal/logging"
	"tokenpulse/internal/observability"
	"tokenpulse/internal/provider"
	"tokenpulse/internal/repository"
	"tokenpulse/internal/sentiment"
	"tokenpulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

var Version = "dev"

// Sources are the network clients a run polls.
type Sources struct {
	Providers job.Providers
	Channel   sentiment.ChannelReader
	Reddit    sentiment.RedditSearcher
}

var (
	newLoggerFunc    = logging.New
	initTracerFunc   = tracing.InitTracer
	initPostgresFunc = db.InitPostgres
	initRedisFunc    = cache.InitRedis
	runMigrations    = func(ctx context.Context, pool repository.MigrationPool) (int, error) {
		return repository.RunMigrations(ctx, pool)
	}
	newSourcesFunc = func(tracer trace.Tracer, cfg *config.Config) Sources {
		src := Sources{
			Providers: job.Providers{
				Market:   provider.NewDexScreenerProvider(tracer),
				Risk:     provider.NewRugCheckProvider(tracer),
				Metadata: provider.NewCoinGeckoProvider(tracer, cfg.CoinGeckoNetwork),
			},
			Channel: provider.NewTelegramProvider(tracer),
		}
		if cfg.RedditEnabled {
			src.Reddit = provider.NewRedditProvider(tracer)
		}
		return src
	}
	startTelegramBotFunc   = bot.StartTelegramBot
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// Run collects targets until ctx is cancelled or every worker reaches its
// cycle bound. Only dataset and target errors are returned; optional
// integrations that fail to start are logged and skipped.
func Run(ctx context.Context, cfg *config.Config, targets []string) error {
	logger, err := newLoggerFunc(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	for _, w := range cfg.Warnings {
		logger.Warnw("config", "detail", w)
	}

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{
		Enabled:  cfg.TracingEnabled,
		Endpoint: cfg.OTLPEndpoint,
		Version:  Version,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("tracer shutdown failed", "error", err)
		}
	}()

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	metrics := observability.NewMetrics("")
	src := newSourcesFunc(tracer, cfg)

	var mirrors []dataset.Mirror
	var history handler.HistorySource
	var snapshots *repository.SnapshotRepository

	if cfg.DatabaseURL != "" {
		pool, err := initPostgresFunc(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warnw("postgres mirror disabled", "error", err)
		} else {
			defer pool.Close()
			if n, err := runMigrations(ctx, pool); err != nil {
				logger.Warnw("postgres migrations failed, mirror disabled", "error", err)
			} else {
				logger.Infow("postgres schema ready", "applied", n)
				snapshots = repository.NewSnapshotRepository(pool, tracer, runID)
				mirrors = append(mirrors, snapshots)
				history = snapshots
			}
		}
	}

	if cfg.RedisURL != "" {
		client, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warnw("redis cache disabled", "error", err)
		} else {
			defer client.Close()
			ttl := time.Duration(cfg.LatestCacheTTLSecs) * time.Second
			mirrors = append(mirrors, cache.NewLatestCache(client, tracer, ttl))
		}
	}

	sup, err := job.NewSupervisor(job.SupervisorConfig{
		RunID:      runID,
		DatasetDir: cfg.DatasetDir,
		Worker: job.WorkerOptions{
			Interval:  cfg.PollInterval,
			MaxCycles: cfg.MaxCycles,
		},
		Channel:       sentiment.ChannelOptions{BackfillPages: cfg.TelegramBackfillPages},
		Subreddits:    cfg.RedditSubreddits,
		DedupCapacity: cfg.DedupCapacity,
		LatestTTL:     time.Duration(cfg.LatestCacheTTLSecs) * time.Second,
	}, job.Dependencies{
		Tracer:    tracer,
		Logger:    logger,
		Metrics:   metrics,
		Providers: src.Providers,
		Channel:   src.Channel,
		Reddit:    src.Reddit,
		Mirrors:   mirrors,
	}, targets)
	if err != nil {
		return err
	}

	if snapshots != nil {
		if err := snapshots.StartRun(ctx, targets, time.Now()); err != nil {
			logger.Warnw("record run start failed", "error", err)
		}
		defer func() {
			if err := snapshots.FinishRun(context.WithoutCancel(ctx), time.Now()); err != nil {
				logger.Warnw("record run finish failed", "error", err)
			}
		}()
	}

	var srv *http.Server
	if cfg.HTTPEnabled {
		srv = newStatusServer(cfg, tracer, sup, history, metrics)
		go func() {
			if err := startHTTPServerFunc(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("status server failed", "addr", srv.Addr, "error", err)
			}
		}()
		logger.Infow("status server listening", "addr", srv.Addr)
	}

	b, err := startTelegramBotFunc(cfg.TelegramBotToken, sup, logger)
	if err != nil {
		logger.Warnw("telegram bot disabled", "error", err)
	}

	runErr := sup.Run(ctx)

	if b != nil {
		b.Stop()
	}
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
			logger.Warnw("status server shutdown failed", "error", err)
		}
	}
	logger.Infow("collection finished", "error", runErr)
	return runErr
}

func newStatusServer(cfg *config.Config, tracer trace.Tracer, sup *job.Supervisor, history handler.HistorySource, metrics *observability.Metrics) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware(tracing.ServiceName))
	handler.New(tracer, sup, history, metrics.Handler(), cfg.HTTPAPIKey).RegisterRoutes(r)
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
