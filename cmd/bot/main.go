package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	binance "breakout_bot/internal/modules/binance_client"
	"breakout_bot/internal/modules/bootstrap"
	"breakout_bot/internal/modules/config"
	"breakout_bot/internal/modules/health"
	"breakout_bot/internal/modules/postgres"
	"breakout_bot/internal/modules/strategy"
	telegram "breakout_bot/internal/modules/telegram_bot"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config (default $CONFIG_FILE or configs/values_local.yaml)")
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	run := []fx.Option{bootstrap.Module(), health.Module()}
	if *once {
		run = []fx.Option{bootstrap.OnceModule()}
	}

	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		// цикл с ретраями может идти дольше дефолтных 15s
		fx.StopTimeout(2*time.Minute),
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(*configPath),
		postgres.Module(),
		binance.Module(),
		telegram.Module(),
		strategy.Module(),
		fx.Options(run...),
	)
	app.Run()
}
