package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"breakout_bot/internal/config"
	"breakout_bot/pkg/db"
)

// NewTxManager — nil, если DSN не задан: журнал тогда пишется только в CSV.
func NewTxManager(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*db.PgTxManager, error) {
	if cfg.DB.DSN == "" {
		log.Info("DATABASE_DSN not set, postgres trade log disabled")
		return nil, nil
	}

	poolMaster, err := db.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create poolMaster: %w", err)
	}

	tm := db.NewPgTxManager(poolMaster)
	lc.Append(fx.StopHook(tm.Close))
	return tm, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			NewTxManager,
		),
	)
}
