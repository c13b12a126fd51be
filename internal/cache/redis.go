package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tokenpulse/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "tokenpulse:latest:"

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// InitRedis connects to addr, which may be host:port or a redis:// URL.
func InitRedis(ctx context.Context, addr string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = "localhost:6379"
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// LatestCache keeps the most recent record per token under a TTL.
type LatestCache struct {
	client RedisClient
	tracer trace.Tracer
	ttl    time.Duration
}

func NewLatestCache(client RedisClient, tracer trace.Tracer, ttl time.Duration) *LatestCache {
	return &LatestCache{client: client, tracer: tracer, ttl: ttl}
}

func Key(token string) string { return keyPrefix + token }

func (c *LatestCache) Name() string { return "redis" }

func (c *LatestCache) Append(ctx context.Context, rec domain.Record) error {
	ctx, span := c.tracer.Start(ctx, "latest-cache.set")
	defer span.End()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return c.client.Set(ctx, Key(rec.Token.String()), data, c.ttl).Err()
}

// Get returns false when nothing is cached for token.
func (c *LatestCache) Get(ctx context.Context, token string) (domain.Record, bool, error) {
	ctx, span := c.tracer.Start(ctx, "latest-cache.get")
	defer span.End()

	raw, err := c.client.Get(ctx, Key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Record{}, false, nil
	}
	if err != nil {
		return domain.Record{}, false, err
	}
	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Record{}, false, fmt.Errorf("decode record: %w", err)
	}
	return rec, true, nil
}
