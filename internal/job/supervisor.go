package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokenpulse/internal/dataset"
	"tokenpulse/internal/domain"
	"tokenpulse/internal/observability"
	"tokenpulse/internal/sentiment"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTargetCount     = errors.New("target count out of range")
	ErrDuplicateTarget = errors.New("duplicate target")
)

const DefaultLatestTTL = 5 * time.Minute

type SupervisorConfig struct {
	// RunID tags this run in logs and mirrors; generated when empty.
	RunID      string
	DatasetDir string
	Worker     WorkerOptions
	Channel    sentiment.ChannelOptions
	Subreddits []string
	// DedupCapacity bounds each fingerprint set; 0 keeps everything.
	DedupCapacity int
	LatestTTL     time.Duration
}

// Dependencies are shared across all workers. A nil ChannelReader or
// RedditSearcher disables that sentiment source.
type Dependencies struct {
	Tracer    trace.Tracer
	Logger    *zap.SugaredLogger
	Metrics   *observability.Metrics
	Providers Providers
	Channel   sentiment.ChannelReader
	Reddit    sentiment.RedditSearcher
	Mirrors   []dataset.Mirror
}

// Supervisor owns one worker per target and joins them on shutdown.
type Supervisor struct {
	runID   string
	workers []*Worker
	sinks   []*dataset.CSVSink
	latest  *gocache.Cache
	logger  *zap.SugaredLogger
}

// ValidateTargets parses raw identifiers and enforces the 1 to 10 unique
// target rule.
func ValidateTargets(raw []string) ([]domain.TokenTarget, error) {
	if len(raw) < domain.MinTargets || len(raw) > domain.MaxTargets {
		return nil, fmt.Errorf("%w: got %d, want %d-%d", ErrTargetCount, len(raw), domain.MinTargets, domain.MaxTargets)
	}
	seen := make(map[domain.TokenTarget]struct{}, len(raw))
	targets := make([]domain.TokenTarget, 0, len(raw))
	for _, r := range raw {
		t, err := domain.ParseTarget(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTarget, t)
		}
		seen[t] = struct{}{}
		targets = append(targets, t)
	}
	return targets, nil
}

// NewSupervisor validates targets and opens every dataset file before any
// worker starts. A failure here is fatal to the run.
func NewSupervisor(cfg SupervisorConfig, deps Dependencies, rawTargets []string) (*Supervisor, error) {
	targets, err := ValidateTargets(rawTargets)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	ttl := cfg.LatestTTL
	if ttl <= 0 {
		ttl = DefaultLatestTTL
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	s := &Supervisor{
		runID:  runID,
		latest: gocache.New(ttl, 2*ttl),
	}
	s.logger = logger.With("run_id", s.runID)

	for _, target := range targets {
		sink, err := dataset.OpenCSV(cfg.DatasetDir, target)
		if err != nil {
			_ = s.closeSinks()
			return nil, fmt.Errorf("open dataset for %s: %w", target, err)
		}
		s.sinks = append(s.sinks, sink)

		var channel ChannelSentiment
		if deps.Channel != nil {
			opts := cfg.Channel
			opts.DedupCapacity = cfg.DedupCapacity
			channel = sentiment.NewChannelScorer(deps.Channel, opts)
		}
		var community CommunitySentiment
		if deps.Reddit != nil {
			community = sentiment.NewRedditScorer(deps.Reddit, cfg.Subreddits, cfg.DedupCapacity)
		}

		w := NewWorker(deps.Tracer, s.logger, deps.Metrics, target, deps.Providers, channel, community,
			dataset.NewFanout(sink, s.logger, deps.Mirrors...), cfg.Worker)
		w.onWrite = s.remember
		s.workers = append(s.workers, w)
		s.logger.Infow("dataset ready", "token", target.String(), "path", sink.Path())
	}
	return s, nil
}

func (s *Supervisor) RunID() string { return s.runID }

// Run starts every worker and blocks until all have stopped. Dataset files
// are closed on return.
func (s *Supervisor) Run(ctx context.Context) error {
	s.logger.Infow("supervisor starting", "workers", len(s.workers))
	var g errgroup.Group
	for _, w := range s.workers {
		w := w
		g.Go(func() error {
			w.Run(ctx)
			return nil
		})
	}
	err := g.Wait()
	if cerr := s.closeSinks(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	s.logger.Infow("supervisor stopped")
	return err
}

func (s *Supervisor) Statuses() []Status {
	out := make([]Status, 0, len(s.workers))
	for _, w := range s.workers {
		out = append(out, w.Status())
	}
	return out
}

// Latest returns the most recently persisted record for token, if it has
// not expired.
func (s *Supervisor) Latest(token string) (domain.Record, bool) {
	v, ok := s.latest.Get(token)
	if !ok {
		return domain.Record{}, false
	}
	rec, ok := v.(domain.Record)
	return rec, ok
}

func (s *Supervisor) remember(rec domain.Record) {
	s.latest.Set(rec.Token.String(), rec, gocache.DefaultExpiration)
}

func (s *Supervisor) closeSinks() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.sinks = nil
	return errors.Join(errs...)
}
