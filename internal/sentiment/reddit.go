package sentiment

import (
	"context"
	"fmt"
	"strings"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/extract"
	"tokenpulse/internal/provider"
)

// RedditSearcher runs one subreddit search.
type RedditSearcher interface {
	Search(ctx context.Context, subreddit, query string) ([]provider.RedditPost, error)
}

// RedditResult aggregates one cycle across all configured subreddits.
type RedditResult struct {
	Query       string
	Subscribers int64
	HasSubs     bool
	Tally       Tally
	Errs        []error
}

func (r RedditResult) Fields() map[string]string {
	out := domain.Blank(domain.RedditColumns)
	if r.HasSubs {
		out[domain.ColRedditSubs] = extract.Count(float64(r.Subscribers), true)
	}
	total := r.Tally.Total()
	out[domain.ColRedditAnalyzed] = itoa(total)
	out[domain.ColRedditPositive] = itoa(r.Tally.Positive)
	out[domain.ColRedditNegative] = itoa(r.Tally.Negative)
	out[domain.ColRedditNeutral] = itoa(r.Tally.Neutral)
	out[domain.ColRedditPositivePct] = r.Tally.Pct(r.Tally.Positive)
	out[domain.ColRedditNegativePct] = r.Tally.Pct(r.Tally.Negative)
	out[domain.ColRedditNeutralPct] = r.Tally.Pct(r.Tally.Neutral)
	out[domain.ColRedditNew] = itoa(total)
	return out
}

// RedditScorer searches a fixed subreddit list for a token's name and symbol.
// Dedup state is kept per subreddit. Not safe for concurrent use.
type RedditScorer struct {
	searcher   RedditSearcher
	subreddits []string
	capacity   int
	seen       map[string]SeenSet
}

func NewRedditScorer(searcher RedditSearcher, subreddits []string, dedupCapacity int) *RedditScorer {
	if len(subreddits) == 0 {
		subreddits = provider.DefaultSubreddits
	}
	return &RedditScorer{
		searcher:   searcher,
		subreddits: append([]string(nil), subreddits...),
		capacity:   dedupCapacity,
		seen:       make(map[string]SeenSet),
	}
}

// Query joins name and symbol, skipping sentinel values.
func Query(name, symbol string) string {
	var parts []string
	for _, p := range []string{name, symbol} {
		p = strings.TrimSpace(p)
		if p != "" && p != domain.Sentinel {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (s *RedditScorer) Score(ctx context.Context, name, symbol string) RedditResult {
	res := RedditResult{Query: Query(name, symbol)}
	if res.Query == "" {
		return res
	}

	var fresh []string
	for _, sub := range s.subreddits {
		if ctx.Err() != nil {
			break
		}
		posts, err := s.searcher.Search(ctx, sub, res.Query)
		if err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("r/%s: %w", sub, err))
			continue
		}
		seen, ok := s.seen[sub]
		if !ok {
			seen = NewSeenSet(s.capacity)
			s.seen[sub] = seen
		}

		bodies := make([]string, 0, len(posts))
		counted := false
		for _, post := range posts {
			if !counted && post.HasSubs {
				res.Subscribers += post.Subscribers
				res.HasSubs = true
				counted = true
			}
			if body := post.Body(); body != "" {
				bodies = append(bodies, body)
			}
		}
		fresh = append(fresh, Fresh(seen, bodies)...)
	}
	res.Tally = TallyTexts(fresh)
	return res
}
