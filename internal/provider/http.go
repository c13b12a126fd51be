package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"tokenpulse/internal/payload"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	maxBodyBytes     = 8 << 20
	maxErrorBody     = 512
)

// doGet issues one request. Once started it runs to the client timeout even
// if ctx is cancelled; callers observe cancellation before starting a request.
func doGet(ctx context.Context, client *http.Client, name, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%s API error %d: %s", name, resp.StatusCode, string(body))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func getJSON(ctx context.Context, client *http.Client, name, url string) (payload.Node, error) {
	body, err := doGet(ctx, client, name, url, "application/json")
	if err != nil {
		return payload.Node{}, err
	}
	node, err := payload.Parse(body)
	if err != nil {
		return payload.Node{}, fmt.Errorf("decode %s response: %w", name, err)
	}
	return node, nil
}
