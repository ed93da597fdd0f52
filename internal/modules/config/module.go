package config

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	appcfg "breakout_bot/internal/config"
	"breakout_bot/pkg/logger"
	"breakout_bot/pkg/tracing"
)

// Module — конфиг, логгер и трейсер. path может быть пустым (CONFIG_FILE / дефолт).
func Module(path string) fx.Option {
	return fx.Module("config",
		fx.Provide(
			func() (*appcfg.Config, error) { return appcfg.Load(path) },
			NewLogger,
		),
		fx.Invoke(
			func(cfg *appcfg.Config, log *zap.Logger) {
				log.Info("effective config\n" + cfg.Dump())
			},
			RunTracer,
		),
	)
}

func NewLogger(lc fx.Lifecycle, cfg *appcfg.Config) (*zap.Logger, error) {
	logger.SetServiceName(cfg.Service.Name)
	tracing.SetServiceName(cfg.Service.Name)

	l, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() { _ = l.Sync() }))
	return l, nil
}

func RunTracer(lc fx.Lifecycle, cfg *appcfg.Config) error {
	_, closer, err := tracing.InitTracer(cfg.Tracing)
	if err != nil {
		return err
	}
	lc.Append(fx.StopHook(closer))
	return nil
}
