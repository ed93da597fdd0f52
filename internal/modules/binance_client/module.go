package binance_client

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"breakout_bot/internal/config"
	"breakout_bot/internal/exchange"
	"breakout_bot/internal/metrics"
	"breakout_bot/internal/retry"
)

func NewCaller(log *zap.Logger, rec *metrics.Recorder) *retry.Caller {
	return retry.NewCaller(log.Named("retry"), retry.WithObserver(rec.RecordCallFailure))
}

// NewExchange — Binance spot, каждый вызов под политикой ретраев из конфига.
func NewExchange(cfg *config.Config, caller *retry.Caller, log *zap.Logger) exchange.Exchange {
	log.Info("binance client",
		zap.Bool("testnet", cfg.Binance.Testnet),
		zap.Duration("http_timeout", cfg.Binance.HTTPTimeout),
	)
	raw := exchange.NewBinance(cfg.Binance, cfg.Trading.TickSize, cfg.Position.LotStep)
	return exchange.NewRetrying(raw, caller, cfg.Retry)
}

func Module() fx.Option {
	return fx.Module("binance_client",
		fx.Provide(
			NewCaller,
			NewExchange,
		),
	)
}
