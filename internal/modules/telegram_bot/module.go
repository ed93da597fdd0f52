package telegram

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"breakout_bot/internal/config"
	"breakout_bot/internal/modules/health/service"
	"breakout_bot/internal/notify"
)

// NewTelegram — nil, если токен или чат не заданы.
func NewTelegram(cfg *config.Config, log *zap.Logger) (*notify.Telegram, error) {
	if !cfg.Telegram.Enabled() {
		log.Info("telegram not configured, status goes to stdout")
		return nil, nil
	}
	return notify.NewTelegram(cfg.Telegram, log)
}

func NewNotifier(t *notify.Telegram) notify.Notifier {
	if t == nil {
		return notify.NewStdout()
	}
	return t
}

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			NewTelegram,
			NewNotifier,
		),
		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *notify.Telegram, state *service.State) {
				if t == nil {
					return
				}
				t.Handle("status", func(context.Context) string {
					if s := state.LastSummary(); s != "" {
						return s
					}
					return "no cycles yet"
				})
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						// ctx хука живёт только до конца старта
						return t.Start(context.WithoutCancel(ctx))
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
