package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tokenpulse/internal/payload"

	"go.opentelemetry.io/otel/trace"
)

const dexScreenerBaseURL = "https://api.dexscreener.com"

// DexScreenerProvider is the primary market-data source.
type DexScreenerProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewDexScreenerProvider(tracer trace.Tracer) *DexScreenerProvider {
	return &DexScreenerProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: dexScreenerBaseURL,
		tracer:  tracer,
	}
}

func (p *DexScreenerProvider) Name() string { return "dexscreener" }

// Fetch returns the first trading pair listed for token.
func (p *DexScreenerProvider) Fetch(ctx context.Context, token string) (payload.Node, error) {
	ctx, span := p.tracer.Start(ctx, "dexscreener.fetch")
	defer span.End()

	u := fmt.Sprintf("%s/latest/dex/tokens/%s", strings.TrimRight(p.baseURL, "/"), url.PathEscape(token))
	root, err := getJSON(ctx, p.client, p.Name(), u)
	if err != nil {
		span.RecordError(err)
		return payload.Node{}, unavailable(p.Name(), err)
	}

	pair := root.Get("pairs").Index(0)
	if !pair.IsObject() {
		return payload.Node{}, unavailable(p.Name(), ErrNoPairs)
	}
	return pair, nil
}

// IsNoPairs reports whether err came from an empty pair list rather than a
// transport failure.
func IsNoPairs(err error) bool {
	return errors.Is(err, ErrNoPairs)
}
