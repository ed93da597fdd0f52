package strategy

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"breakout_bot/internal/config"
	"breakout_bot/internal/exchange"
	"breakout_bot/internal/executor"
	"breakout_bot/internal/metrics"
	"breakout_bot/internal/modules/health/service"
	"breakout_bot/internal/notify"
	"breakout_bot/internal/position"
	"breakout_bot/internal/risk"
	"breakout_bot/internal/tradelog"
	"breakout_bot/pkg/db"
)

func NewTracker(cfg *config.Config, ex exchange.Exchange, log *zap.Logger) *position.Tracker {
	return position.NewTracker(cfg.Position, ex, log)
}

func NewSizer(cfg *config.Config) *risk.Sizer {
	return risk.NewSizer(cfg.Sizer)
}

// NewJournal — CSV всегда, Postgres при заданном DSN.
func NewJournal(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, tm *db.PgTxManager) (tradelog.Journal, error) {
	journal := tradelog.Multi{tradelog.NewCSV(cfg.TradeLog.File)}
	if tm != nil {
		pg := tradelog.NewPostgres(tm)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		journal = append(journal, pg)
	}
	lc.Append(fx.StopHook(journal.Close))
	return journal, nil
}

func NewExecutor(
	cfg *config.Config,
	ex exchange.Exchange,
	tracker *position.Tracker,
	sizer *risk.Sizer,
	journal tradelog.Journal,
	rec *metrics.Recorder,
	log *zap.Logger,
) *executor.Executor {
	return executor.New(cfg.Trading, ex, tracker, sizer, journal, rec, log)
}

// Subscribe разводит отчёт цикла по health и уведомлениям.
func Subscribe(exec *executor.Executor, state *service.State, n notify.Notifier) {
	exec.OnCycle(func(r executor.Report) {
		state.CycleDone(string(r.Outcome), r.String(), r.StartedAt)
		if r.Notable() {
			n.Send(r.String())
		}
	})
}

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			NewTracker,
			NewSizer,
			NewJournal,
			NewExecutor,
		),
		fx.Invoke(Subscribe),
	)
}
