package bootstrap

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"breakout_bot/internal/config"
	"breakout_bot/internal/executor"
	"breakout_bot/internal/metrics"
	"breakout_bot/internal/modules/health/service"
	"breakout_bot/internal/scheduler"
)

func NewScheduler(cfg *config.Config, log *zap.Logger) (*scheduler.Scheduler, error) {
	return scheduler.New(cfg.Schedule, log)
}

// RunLoop крутит циклы по расписанию от старта до остановки приложения.
// На остановке ждём, пока текущий цикл дойдёт до конца.
func RunLoop(lc fx.Lifecycle, sch *scheduler.Scheduler, exec *executor.Executor, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				_ = sch.Run(ctx, func(ctx context.Context) {
					// итог и ошибка цикла уже в логе executor
					_, _ = exec.RunCycle(ctx)
				})
			}()
			log.Info("[BOOT] cycle loop started")
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

// RunOnce — один цикл и выход; код выхода 1, если цикл прерван.
func RunOnce(lc fx.Lifecycle, exec *executor.Executor, sd fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				if _, err := exec.RunCycle(context.Background()); err != nil {
					code = 1
				}
				_ = sd.Shutdown(fx.ExitCode(code))
			}()
			return nil
		},
	})
}

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(NewScheduler),
		fx.Invoke(RunLoop),
	)
}

// OnceModule заменяет Module и health для запуска с -once: без HTTP и расписания.
func OnceModule() fx.Option {
	return fx.Module("bootstrap_once",
		fx.Provide(
			metrics.New,
			service.NewState,
		),
		fx.Invoke(RunOnce),
	)
}
