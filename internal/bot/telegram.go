package bot

import (
	"fmt"
	"strings"
	"time"

	"tokenpulse/internal/domain"
	"tokenpulse/internal/job"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// StatusSource is what the bot reports on.
type StatusSource interface {
	Statuses() []job.Status
	Latest(token string) (domain.Record, bool)
}

type registrar interface {
	Handle(endpoint interface{}, h tele.HandlerFunc, m ...tele.MiddlewareFunc)
}

var newBot = func(pref tele.Settings) (*tele.Bot, error) { return tele.NewBot(pref) }

// latestColumns are the fields /latest prints, in order.
var latestColumns = []string{
	domain.ColName,
	domain.ColPriceUSD,
	domain.ColMarketCap,
	domain.ColTotalLiquidity,
	domain.ColVolume24h,
	domain.ColChange24h,
	domain.ColRugAssessment,
	domain.ColTGPositivePct,
	domain.ColTGNegativePct,
}

// StartTelegramBot polls in the background and returns the bot so the caller
// can stop it. A nil bot is returned when token is empty.
func StartTelegramBot(token string, status StatusSource, logger *zap.SugaredLogger) (*tele.Bot, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if token == "" {
		logger.Infow("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}
	b, err := newBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	register(b, status)

	logger.Infow("telegram bot started")
	go b.Start()
	return b, nil
}

func register(r registrar, status StatusSource) {
	r.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	r.Handle("/status", func(c tele.Context) error {
		return c.Send(statusText(status.Statuses()))
	})

	r.Handle("/latest", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /latest <token address>")
		}
		rec, ok := status.Latest(args[0])
		if !ok {
			return c.Send("No record yet for " + args[0])
		}
		return c.Send(latestText(rec))
	})
}

func statusText(statuses []job.Status) string {
	if len(statuses) == 0 {
		return "No workers running"
	}
	var b strings.Builder
	for i, st := range statuses {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s, %d cycles, %d rows, %d skipped", st.Token, st.State, st.Cycles, st.Rows, st.Skipped)
		if st.LastError != "" {
			fmt.Fprintf(&b, " (last error: %s)", st.LastError)
		}
	}
	return b.String()
}

func latestText(rec domain.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s @ %s", rec.Token, rec.CollectedAt.Format(domain.TimestampLayout))
	for _, col := range latestColumns {
		fmt.Fprintf(&b, "\n%s: %s", col, rec.Value(col))
	}
	return b.String()
}
