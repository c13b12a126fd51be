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

const rugCheckBaseURL = "https://api.rugcheck.xyz"

var errNotObject = errors.New("response is not a JSON object")

// RugCheckProvider fetches the token risk report.
type RugCheckProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewRugCheckProvider(tracer trace.Tracer) *RugCheckProvider {
	return &RugCheckProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: rugCheckBaseURL,
		tracer:  tracer,
	}
}

func (p *RugCheckProvider) Name() string { return "rugcheck" }

func (p *RugCheckProvider) Fetch(ctx context.Context, token string) (payload.Node, error) {
	ctx, span := p.tracer.Start(ctx, "rugcheck.fetch")
	defer span.End()

	u := fmt.Sprintf("%s/v1/tokens/%s/report", strings.TrimRight(p.baseURL, "/"), url.PathEscape(token))
	report, err := getJSON(ctx, p.client, p.Name(), u)
	if err != nil {
		span.RecordError(err)
		return payload.Node{}, unavailable(p.Name(), err)
	}
	if !report.IsObject() {
		return payload.Node{}, unavailable(p.Name(), errNotObject)
	}
	return report, nil
}
