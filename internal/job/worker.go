package job

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"tokenpulse/internal/dataset"
	"tokenpulse/internal/domain"
	"tokenpulse/internal/extract"
	"tokenpulse/internal/observability"
	"tokenpulse/internal/payload"
	"tokenpulse/internal/sentiment"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPollInterval = 13 * time.Second
	DefaultMaxCycles    = 6000
)

type State int32

const (
	StateIdle State = iota
	StateFetching
	StateNormalizing
	StatePersisting
	StateSleeping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateNormalizing:
		return "normalizing"
	case StatePersisting:
		return "persisting"
	case StateSleeping:
		return "sleeping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Fetcher is a JSON provider keyed by token address.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, token string) (payload.Node, error)
}

// ChannelSentiment scores the Telegram channel named by a market record.
type ChannelSentiment interface {
	Score(ctx context.Context, telegramField string) sentiment.ChannelResult
}

// CommunitySentiment scores community posts matching a token's name and symbol.
type CommunitySentiment interface {
	Score(ctx context.Context, name, symbol string) sentiment.RedditResult
}

// Providers are shared by every worker.
type Providers struct {
	Market   Fetcher
	Risk     Fetcher
	Metadata Fetcher
}

type WorkerOptions struct {
	Interval  time.Duration
	MaxCycles int
	// Tick is the sleep granularity between cancellation checks.
	Tick time.Duration
}

// Status is a point-in-time snapshot of a worker.
type Status struct {
	Token         string    `json:"token"`
	State         string    `json:"state"`
	Cycles        int64     `json:"cycles"`
	Rows          int64     `json:"rows"`
	Skipped       int64     `json:"skipped"`
	PersistErrors int64     `json:"persist_errors"`
	LastError     string    `json:"last_error,omitempty"`
	LastWrite     time.Time `json:"last_write,omitzero"`
}

// Worker runs the poll, normalize, persist loop for one token.
type Worker struct {
	token     domain.TokenTarget
	providers Providers
	channel   ChannelSentiment
	community CommunitySentiment
	sink      dataset.Sink
	opts      WorkerOptions

	tracer  trace.Tracer
	logger  *zap.SugaredLogger
	metrics *observability.Metrics
	now     func() time.Time
	onWrite func(domain.Record)

	state         atomic.Int32
	cycles        atomic.Int64
	rows          atomic.Int64
	skipped       atomic.Int64
	persistErrors atomic.Int64

	mu        sync.RWMutex
	lastErr   string
	lastWrite time.Time
}

func NewWorker(
	tracer trace.Tracer,
	logger *zap.SugaredLogger,
	metrics *observability.Metrics,
	token domain.TokenTarget,
	providers Providers,
	channel ChannelSentiment,
	community CommunitySentiment,
	sink dataset.Sink,
	opts WorkerOptions,
) *Worker {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.MaxCycles < 0 {
		opts.MaxCycles = DefaultMaxCycles
	}
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("tokenpulse")
	}
	return &Worker{
		token:     token,
		providers: providers,
		channel:   channel,
		community: community,
		sink:      sink,
		opts:      opts,
		tracer:    tracer,
		logger:    logger.With("token", token.String()),
		metrics:   metrics,
		now:       time.Now,
	}
}

func (w *Worker) Token() domain.TokenTarget { return w.token }

func (w *Worker) State() State { return State(w.state.Load()) }

func (w *Worker) setState(s State) { w.state.Store(int32(s)) }

func (w *Worker) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Status{
		Token:         w.token.String(),
		State:         w.State().String(),
		Cycles:        w.cycles.Load(),
		Rows:          w.rows.Load(),
		Skipped:       w.skipped.Load(),
		PersistErrors: w.persistErrors.Load(),
		LastError:     w.lastErr,
		LastWrite:     w.lastWrite,
	}
}

// Run loops until ctx is cancelled or MaxCycles cycles have run. It always
// leaves the worker in StateStopped.
func (w *Worker) Run(ctx context.Context) {
	w.metrics.WorkersActiveInc()
	defer func() {
		w.setState(StateStopped)
		w.metrics.WorkersActiveDec()
	}()

	w.logger.Infow("worker starting", "interval", w.opts.Interval, "max_cycles", w.opts.MaxCycles)
	for cycle := 1; w.opts.MaxCycles == 0 || cycle <= w.opts.MaxCycles; cycle++ {
		if ctx.Err() != nil {
			break
		}
		w.RunCycle(ctx)

		if w.opts.MaxCycles != 0 && cycle == w.opts.MaxCycles {
			break
		}
		if !w.sleep(ctx) {
			break
		}
	}
	w.logger.Infow("worker stopped", "cycles", w.cycles.Load(), "rows", w.rows.Load())
}

func (w *Worker) sleep(ctx context.Context) bool {
	w.setState(StateSleeping)
	ticker := time.NewTicker(w.opts.Tick)
	defer ticker.Stop()

	deadline := w.now().Add(w.opts.Interval)
	for w.now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return ctx.Err() == nil
}

// RunCycle performs one fetch, normalize and persist pass and reports whether
// a row was written. Cancelling ctx does not abort requests already in
// flight; it stops any further page or sentiment request, and whatever was
// collected is still persisted.
func (w *Worker) RunCycle(ctx context.Context) bool {
	ctx, span := w.tracer.Start(ctx, "worker.cycle")
	defer span.End()
	span.SetAttributes(attribute.String("token", w.token.String()))

	w.cycles.Add(1)
	collectedAt := w.now()

	w.setState(StateFetching)
	var market, risk, meta payload.Node
	var marketErr error
	var g errgroup.Group
	g.Go(func() error {
		market, marketErr = w.fetch(ctx, w.providers.Market)
		return nil
	})
	g.Go(func() error {
		risk, _ = w.fetch(ctx, w.providers.Risk)
		return nil
	})
	g.Go(func() error {
		meta, _ = w.fetch(ctx, w.providers.Metadata)
		return nil
	})
	_ = g.Wait()

	if marketErr != nil || !market.IsObject() {
		w.setState(StateNormalizing)
		w.skipped.Add(1)
		w.metrics.ObserveCycle(observability.CycleSkipped)
		w.logger.Infow("no market pair, skipping row")
		span.SetAttributes(attribute.Bool("skipped", true))
		return false
	}

	marketFields := extract.Market(market, collectedAt)
	riskFields := extract.Risk(risk)

	channelFields := domain.Blank(domain.ChannelColumns)
	redditFields := domain.Blank(domain.RedditColumns)
	stopping := ctx.Err() != nil
	var sg errgroup.Group
	if w.channel != nil && !stopping {
		sg.Go(func() error {
			res := w.channel.Score(ctx, marketFields[domain.ColTelegram])
			if res.Err != nil {
				w.logger.Warnw("channel fetch incomplete", "channel", res.Channel, "pages", res.Pages, "error", res.Err)
			}
			w.metrics.ObserveSentiment("telegram", res.Tally.Positive, res.Tally.Negative, res.Tally.Neutral)
			channelFields = res.Fields()
			return nil
		})
	}
	if w.community != nil && !stopping {
		sg.Go(func() error {
			res := w.community.Score(ctx, marketFields[domain.ColName], riskFields[domain.ColRugSymbol])
			for _, err := range res.Errs {
				w.logger.Warnw("reddit search failed", "error", err)
			}
			w.metrics.ObserveSentiment("reddit", res.Tally.Positive, res.Tally.Negative, res.Tally.Neutral)
			redditFields = res.Fields()
			return nil
		})
	}
	_ = sg.Wait()

	w.setState(StateNormalizing)
	rec := domain.NewRecord(w.token, collectedAt)
	rec.Merge(marketFields)
	rec.Merge(riskFields)
	rec.Merge(extract.Metadata(meta))
	rec.Merge(channelFields)
	rec.Merge(redditFields)

	w.setState(StatePersisting)
	if err := w.sink.Append(context.WithoutCancel(ctx), rec); err != nil {
		w.persistErrors.Add(1)
		w.setLastError(err)
		w.metrics.ObserveCycle(observability.CyclePersistError)
		w.logger.Errorw("persist row failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false
	}

	w.rows.Add(1)
	w.mu.Lock()
	w.lastWrite = collectedAt
	w.mu.Unlock()
	w.metrics.ObserveCycle(observability.CycleWritten)
	w.metrics.ObserveWrite(w.token.String(), collectedAt)
	if w.onWrite != nil {
		w.onWrite(rec)
	}
	w.logger.Infow("row saved", "price_usd", rec.Value(domain.ColPriceUSD), "cycle", w.cycles.Load())
	return true
}

func (w *Worker) fetch(ctx context.Context, f Fetcher) (payload.Node, error) {
	if f == nil {
		return payload.Node{}, nil
	}
	started := time.Now()
	node, err := f.Fetch(ctx, w.token.String())
	w.metrics.ObserveFetch(f.Name(), started, err)
	if err != nil {
		w.setLastError(err)
		w.logger.Warnw("provider unavailable", "provider", f.Name(), "error", err)
		return payload.Node{}, err
	}
	return node, nil
}

func (w *Worker) setLastError(err error) {
	w.mu.Lock()
	w.lastErr = err.Error()
	w.mu.Unlock()
}
