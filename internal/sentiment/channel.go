package sentiment

import (
	"context"
	"time"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/extract"
	"tokenpulse/internal/provider"
)

const (
	DefaultBackfillPages = 5
	DefaultPageInterval  = time.Second
)

// ChannelReader fetches one preview page of a public channel.
type ChannelReader interface {
	FetchPage(ctx context.Context, username string, page int) (*provider.ChannelPage, error)
}

type ChannelOptions struct {
	BackfillPages int
	PageInterval  time.Duration
	DedupCapacity int
}

// ChannelResult is one cycle's view of a channel.
type ChannelResult struct {
	Channel     string
	Title       string
	Subscribers int64
	Tally       Tally
	Pages       int
	Err         error
}

// Fields renders the result into the channel columns.
func (r ChannelResult) Fields() map[string]string {
	out := domain.Blank(domain.ChannelColumns)
	if r.Channel != "" {
		out[domain.ColTGChannel] = r.Channel
	}
	if r.Title != "" {
		out[domain.ColTGTitle] = r.Title
	}
	out[domain.ColTGSubscribers] = extract.Count(float64(r.Subscribers), true)
	total := r.Tally.Total()
	out[domain.ColTGAnalyzed] = itoa(total)
	out[domain.ColTGPositive] = itoa(r.Tally.Positive)
	out[domain.ColTGNegative] = itoa(r.Tally.Negative)
	out[domain.ColTGNeutral] = itoa(r.Tally.Neutral)
	out[domain.ColTGPositivePct] = r.Tally.Pct(r.Tally.Positive)
	out[domain.ColTGNegativePct] = r.Tally.Pct(r.Tally.Negative)
	out[domain.ColTGNeutralPct] = r.Tally.Pct(r.Tally.Neutral)
	out[domain.ColTGNew] = itoa(total)
	return out
}

type channelState struct {
	seen     SeenSet
	firstRun bool
}

// ChannelScorer keeps per-channel dedup state for a single worker. It is not
// safe for concurrent use.
type ChannelScorer struct {
	reader   ChannelReader
	opts     ChannelOptions
	channels map[string]*channelState
}

func NewChannelScorer(reader ChannelReader, opts ChannelOptions) *ChannelScorer {
	if opts.BackfillPages <= 0 {
		opts.BackfillPages = DefaultBackfillPages
	}
	if opts.PageInterval == 0 {
		opts.PageInterval = DefaultPageInterval
	}
	return &ChannelScorer{
		reader:   reader,
		opts:     opts,
		channels: make(map[string]*channelState),
	}
}

// Score fetches the channel named by a market "Telegram" field and tallies
// the fragments not seen before. The first call for a channel walks back
// BackfillPages pages; later calls read only the newest page. Once ctx is
// done no further page is requested and the pages already read are tallied.
func (s *ChannelScorer) Score(ctx context.Context, telegramField string) ChannelResult {
	username, ok := provider.NormalizeUsername(telegramField)
	if !ok {
		return ChannelResult{}
	}

	state, ok := s.channels[username]
	if !ok {
		state = &channelState{seen: NewSeenSet(s.opts.DedupCapacity), firstRun: true}
		s.channels[username] = state
	}

	pages := 1
	if state.firstRun {
		pages = s.opts.BackfillPages
	}

	res := ChannelResult{Channel: username}
	pacer := provider.NewPacer(s.opts.PageInterval)
	var fresh []string
	for page := 0; page < pages; page++ {
		if ctx.Err() != nil || pacer.Wait(ctx) != nil {
			break
		}
		p, err := s.reader.FetchPage(ctx, username, page)
		if err != nil {
			res.Err = err
			break
		}
		if page == 0 {
			res.Title = p.Title
			res.Subscribers = p.Subscribers
			state.firstRun = false
		}
		res.Pages++
		fresh = append(fresh, Fresh(state.seen, p.Messages)...)
	}
	res.Tally = TallyTexts(fresh)
	return res
}

// Seen reports how many fingerprints are remembered for a channel.
func (s *ChannelScorer) Seen(username string) int {
	if st, ok := s.channels[username]; ok {
		return st.seen.Len()
	}
	return 0
}
