package dataset

import (
	"context"

	"tokenpulse/internal/domain"

	"go.uber.org/zap"
)

// Sink receives every persisted record.
type Sink interface {
	Append(ctx context.Context, rec domain.Record) error
}

// Mirror is a best-effort secondary sink.
type Mirror interface {
	Sink
	Name() string
}

// Fanout writes to the primary sink and then to each mirror. Only the
// primary's error is returned; mirror errors are logged.
type Fanout struct {
	primary Sink
	mirrors []Mirror
	logger  *zap.SugaredLogger
}

func NewFanout(primary Sink, logger *zap.SugaredLogger, mirrors ...Mirror) *Fanout {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Fanout{primary: primary, mirrors: mirrors, logger: logger}
}

func (f *Fanout) Append(ctx context.Context, rec domain.Record) error {
	if err := f.primary.Append(ctx, rec); err != nil {
		return err
	}
	for _, m := range f.mirrors {
		if err := m.Append(ctx, rec); err != nil {
			f.logger.Warnw("mirror append failed", "mirror", m.Name(), "token", rec.Token, "error", err)
		}
	}
	return nil
}
