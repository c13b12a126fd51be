package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tokenpulse/internal/bot"
	"tokenpulse/internal/config"
	"tokenpulse/internal/job"
	"tokenpulse/internal/logging"
	"tokenpulse/internal/payload"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	tele "gopkg.in/telebot.v3"
)

type fixtureFetcher struct {
	name string
	body string
}

func (f fixtureFetcher) Name() string { return f.name }

func (f fixtureFetcher) Fetch(context.Context, string) (payload.Node, error) {
	return payload.MustParse(f.body), nil
}

// stubRun swaps every outward-facing constructor for the duration of a test.
func stubRun(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	origLogger, origPostgres, origRedis := newLoggerFunc, initPostgresFunc, initRedisFunc
	origSources, origBot := newSourcesFunc, startTelegramBotFunc
	origStart, origShutdown := startHTTPServerFunc, shutdownHTTPServerFunc
	t.Cleanup(func() {
		newLoggerFunc, initPostgresFunc, initRedisFunc = origLogger, origPostgres, origRedis
		newSourcesFunc, startTelegramBotFunc = origSources, origBot
		startHTTPServerFunc, shutdownHTTPServerFunc = origStart, origShutdown
	})

	core, logs := observer.New(zap.DebugLevel)
	newLoggerFunc = func(logging.Options) (*zap.SugaredLogger, error) {
		return zap.New(core).Sugar(), nil
	}
	initPostgresFunc = func(context.Context, string) (*pgxpool.Pool, error) {
		return nil, errors.New("postgres unreachable")
	}
	initRedisFunc = func(context.Context, string) (*redis.Client, error) {
		return nil, errors.New("redis unreachable")
	}
	newSourcesFunc = func(trace.Tracer, *config.Config) Sources {
		return Sources{Providers: job.Providers{
			Market:   fixtureFetcher{name: "dexscreener", body: `{"baseToken": {"name": "Bonk"}, "priceUsd": "1"}`},
			Risk:     fixtureFetcher{name: "rugcheck", body: `{"score": 10}`},
			Metadata: fixtureFetcher{name: "coingecko", body: `{"name": "Bonk"}`},
		}}
	}
	startTelegramBotFunc = func(string, bot.StatusSource, *zap.SugaredLogger) (*tele.Bot, error) {
		return nil, nil
	}
	return logs
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		DatasetDir:         dir,
		PollInterval:       time.Millisecond,
		MaxCycles:          1,
		LatestCacheTTLSecs: 60,
		DatabaseURL:        "postgres://nowhere",
		RedisURL:           "redis:6379",
		Warnings:           []string{"REDIS_URL looked odd"},
	}
}

func TestRunWritesDatasetWithoutOptionalIntegrations(t *testing.T) {
	logs := stubRun(t)
	dir := t.TempDir()

	err := Run(context.Background(), testConfig(dir), []string{"tok"})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "tok.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Bonk")

	assert.Equal(t, 1, logs.FilterMessage("postgres mirror disabled").Len())
	assert.Equal(t, 1, logs.FilterMessage("redis cache disabled").Len())
	assert.Equal(t, 1, logs.FilterMessage("config").Len())
}

func TestRunRejectsInvalidTargets(t *testing.T) {
	stubRun(t)
	err := Run(context.Background(), testConfig(t.TempDir()), nil)
	assert.ErrorIs(t, err, job.ErrTargetCount)
}

func TestRunServesStatusAPI(t *testing.T) {
	stubRun(t)
	cfg := testConfig(t.TempDir())
	cfg.HTTPEnabled = true
	cfg.HTTPAddr = ":0"

	var mu sync.Mutex
	var srv *http.Server
	startHTTPServerFunc = func(s *http.Server) error {
		mu.Lock()
		srv = s
		mu.Unlock()
		return http.ErrServerClosed
	}
	shutdownCalled := false
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error {
		shutdownCalled = true
		return nil
	}

	require.NoError(t, Run(context.Background(), cfg, []string{"tok"}))
	assert.True(t, shutdownCalled)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return srv != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, ":0", srv.Addr)

	for path, want := range map[string]int{
		"/health":                 http.StatusOK,
		"/metrics":                http.StatusOK,
		"/api/workers":            http.StatusOK,
		"/api/tokens/tok/latest":  http.StatusOK,
		"/api/tokens/tok/history": http.StatusServiceUnavailable,
	} {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}
