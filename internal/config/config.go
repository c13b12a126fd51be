package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatasetDir    string
	PollInterval  time.Duration
	MaxCycles     int
	DedupCapacity int

	CoinGeckoNetwork      string
	TelegramBackfillPages int
	RedditEnabled         bool
	RedditSubreddits      []string

	DatabaseURL        string
	RedisURL           string
	LatestCacheTTLSecs int

	HTTPEnabled      bool
	HTTPAddr         string
	HTTPAPIKey       string
	TelegramBotToken string

	LogLevel string
	LogFile  string

	TracingEnabled bool
	OTLPEndpoint   string

	// Warnings collects problems found while loading; they are logged once the
	// logger exists.
	Warnings []string
}

func Load() *Config {
	cfg := &Config{
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		HTTPAPIKey:       strings.TrimSpace(os.Getenv("HTTP_API_KEY")),
		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		LogLevel:         strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogFile:          strings.TrimSpace(os.Getenv("LOG_FILE")),
		OTLPEndpoint:     strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	// Tracing is on when asked for explicitly or when a collector is named.
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TRACING_ENABLED"))) {
	case "true":
		cfg.TracingEnabled = true
	case "false":
		cfg.TracingEnabled = false
	default:
		cfg.TracingEnabled = cfg.OTLPEndpoint != ""
	}

	cfg.DatasetDir = strings.TrimSpace(os.Getenv("DATASET_DIR"))
	if cfg.DatasetDir == "" {
		cfg.DatasetDir = "data"
	}

	cfg.PollInterval = time.Duration(cfg.positiveInt("POLL_INTERVAL_SECS", 13)) * time.Second

	cfg.MaxCycles = 6000
	if v := strings.TrimSpace(os.Getenv("MAX_CYCLES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxCycles = n
		} else {
			cfg.warnf("invalid MAX_CYCLES=%q, defaulting to %d", v, cfg.MaxCycles)
		}
	}

	cfg.DedupCapacity = 0
	if v := strings.TrimSpace(os.Getenv("DEDUP_CAPACITY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DedupCapacity = n
		} else {
			cfg.warnf("invalid DEDUP_CAPACITY=%q, keeping every fingerprint", v)
		}
	}

	cfg.CoinGeckoNetwork = strings.ToLower(strings.TrimSpace(os.Getenv("COINGECKO_NETWORK")))
	if cfg.CoinGeckoNetwork == "" {
		cfg.CoinGeckoNetwork = "solana"
	}

	cfg.TelegramBackfillPages = cfg.positiveInt("TELEGRAM_BACKFILL_PAGES", 5)

	cfg.RedditEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("REDDIT_ENABLED")), "false")
	cfg.RedditSubreddits = splitList(os.Getenv("REDDIT_SUBREDDITS"))
	if len(cfg.RedditSubreddits) == 0 {
		cfg.RedditSubreddits = []string{"MemeCoins", "solana", "CryptoMoonShots"}
	}

	cfg.LatestCacheTTLSecs = cfg.positiveInt("LATEST_CACHE_TTL_SECS", 300)

	cfg.HTTPEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("HTTP_ENABLED")), "false")
	cfg.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.DatabaseURL == "" {
		cfg.warnf("DATABASE_URL not set, postgres snapshot mirror disabled")
	}
	if cfg.RedisURL == "" {
		cfg.warnf("REDIS_URL not set, latest-record cache disabled")
	}
	if cfg.TelegramBotToken == "" {
		cfg.warnf("TELEGRAM_BOT_TOKEN not set, status bot disabled")
	}

	return cfg
}

func (c *Config) positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.warnf("invalid %s=%q, defaulting to %d", key, v, def)
		return def
	}
	return n
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
