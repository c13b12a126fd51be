package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const (
	redditBaseURL     = "https://www.reddit.com"
	defaultRedditSize = 20
)

// DefaultSubreddits are searched when no list is configured.
var DefaultSubreddits = []string{"MemeCoins", "solana", "CryptoMoonShots"}

// RedditPost is one search hit reduced to what sentiment scoring needs.
type RedditPost struct {
	ID          string
	Subreddit   string
	Title       string
	SelfText    string
	Subscribers int64
	HasSubs     bool
	CreatedAt   time.Time
}

// Body is the text scored for sentiment.
func (p RedditPost) Body() string {
	return strings.TrimSpace(p.Title + " " + p.SelfText)
}

type RedditProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
}

func NewRedditProvider(tracer trace.Tracer) *RedditProvider {
	return &RedditProvider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: redditBaseURL,
		tracer:  tracer,
	}
}

func (p *RedditProvider) Name() string { return "reddit" }

// Search returns last week's newest posts in subreddit matching query.
func (p *RedditProvider) Search(ctx context.Context, subreddit, query string) ([]RedditPost, error) {
	ctx, span := p.tracer.Start(ctx, "reddit.search")
	defer span.End()

	subreddit = strings.TrimSpace(subreddit)
	query = strings.TrimSpace(query)
	if subreddit == "" || query == "" {
		return nil, unavailable(p.Name(), errors.New("subreddit and query are required"))
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "new")
	params.Set("limit", fmt.Sprint(defaultRedditSize))
	params.Set("t", "week")
	params.Set("restrict_sr", "1")
	u := fmt.Sprintf("%s/r/%s/search.json?%s",
		strings.TrimRight(p.baseURL, "/"), url.PathEscape(subreddit), params.Encode())

	root, err := getJSON(ctx, p.client, p.Name(), u)
	if err != nil {
		span.RecordError(err)
		return nil, unavailable(p.Name(), err)
	}

	children := root.Get("data", "children").Array()
	posts := make([]RedditPost, 0, len(children))
	for _, child := range children {
		data := child.Get("data")
		if !data.IsObject() {
			continue
		}
		post := RedditPost{
			ID:        data.Get("id").String(""),
			Subreddit: subreddit,
			Title:     sanitizeText(data.Get("title").String(""), 300),
			SelfText:  sanitizeText(data.Get("selftext").String(""), 2000),
		}
		if subs, ok := data.Get("subreddit_subscribers").Float(); ok {
			post.Subscribers = int64(subs)
			post.HasSubs = true
		}
		if created, ok := data.Get("created_utc").Float(); ok {
			post.CreatedAt = time.Unix(int64(created), 0).UTC()
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func sanitizeText(in string, maxLen int) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	in = strings.Join(strings.Fields(in), " ")
	if maxLen > 0 && len(in) > maxLen {
		r := []rune(in)
		if len(r) > maxLen {
			r = r[:maxLen]
		}
		in = string(r)
	}
	return in
}
