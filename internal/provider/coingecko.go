package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tokenpulse/internal/payload"

	"go.opentelemetry.io/otel/trace"
)

const (
	coingeckoBaseURL = "https://api.coingecko.com/api/v3"
	coingeckoTimeout = 20 * time.Second
	DefaultNetwork   = "solana"
)

// CoinGeckoProvider looks up coin metadata by contract address on the free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	network string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider shared by every worker. The limiter
// keeps the combined request rate near the free tier allowance of 30 calls a
// minute.
func NewCoinGeckoProvider(tracer trace.Tracer, network string) *CoinGeckoProvider {
	if strings.TrimSpace(network) == "" {
		network = DefaultNetwork
	}
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: coingeckoTimeout},
		baseURL: coingeckoBaseURL,
		network: network,
		tracer:  tracer,
		limiter: NewRateLimiter(30, 2*time.Second),
	}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

func (p *CoinGeckoProvider) Fetch(ctx context.Context, token string) (payload.Node, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch")
	defer span.End()

	waitCtx, cancel := context.WithTimeout(ctx, coingeckoTimeout)
	defer cancel()
	if err := p.limiter.Wait(waitCtx); err != nil {
		return payload.Node{}, unavailable(p.Name(), fmt.Errorf("rate limit wait: %w", err))
	}

	u := fmt.Sprintf("%s/coins/%s/contract/%s",
		strings.TrimRight(p.baseURL, "/"), url.PathEscape(p.network), url.PathEscape(token))
	coin, err := getJSON(ctx, p.client, p.Name(), u)
	if err != nil {
		span.RecordError(err)
		return payload.Node{}, unavailable(p.Name(), err)
	}
	if !coin.IsObject() {
		return payload.Node{}, unavailable(p.Name(), errNotObject)
	}
	return coin, nil
}
