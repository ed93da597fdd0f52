// Package position выводит позицию бота из балансов аккаунта.
package position

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"breakout_bot/internal/exchange"
	"breakout_bot/internal/helper"
	"breakout_bot/internal/models"
)

type Config struct {
	BaseAsset  string  `mapstructure:"base_asset" yaml:"base_asset" default:"BTC" validate:"required"`
	QuoteAsset string  `mapstructure:"quote_asset" yaml:"quote_asset" default:"USDT" validate:"required"`
	// LongThreshold — с какого остатка базового актива считаем, что позиция есть.
	LongThreshold float64 `mapstructure:"long_threshold" yaml:"long_threshold" default:"0.00015" validate:"gt=0"`
	LotStep       float64 `mapstructure:"lot_step" yaml:"lot_step" default:"0.0001" validate:"gt=0"`
}

type Tracker struct {
	cfg Config
	ex  exchange.Exchange
	log *zap.Logger
}

func NewTracker(cfg Config, ex exchange.Exchange, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{cfg: cfg, ex: ex, log: log.Named("position")}
}

// Current — LONG, если free+locked базового актива не меньше порога.
// Количество округляется вниз до шага лота: продать больше, чем есть, биржа не даст.
func (t *Tracker) Current(ctx context.Context) (models.Position, error) {
	bal, err := t.ex.AssetBalance(ctx, t.cfg.BaseAsset)
	if err != nil {
		return models.Position{}, errors.Wrap(err, "position query")
	}
	return t.fromBalance(bal), nil
}

func (t *Tracker) fromBalance(bal models.Balance) models.Position {
	total := bal.Total()
	if total < t.cfg.LongThreshold {
		return models.Position{State: models.PositionNone}
	}
	return models.Position{
		State:    models.PositionLong,
		Quantity: helper.RoundDownToStep(total, t.cfg.LotStep),
	}
}

// Held — сколько базового актива на счету сейчас (free+locked, до шага лота).
func (t *Tracker) Held(ctx context.Context) (float64, error) {
	bal, err := t.ex.AssetBalance(ctx, t.cfg.BaseAsset)
	if err != nil {
		return 0, errors.Wrap(err, "base balance")
	}
	return helper.RoundDownToStep(bal.Total(), t.cfg.LotStep), nil
}

// QuoteBalance — свободный остаток котируемого актива, база для сайзинга.
func (t *Tracker) QuoteBalance(ctx context.Context) (float64, error) {
	bal, err := t.ex.AssetBalance(ctx, t.cfg.QuoteAsset)
	if err != nil {
		return 0, errors.Wrap(err, "quote balance")
	}
	return bal.Free, nil
}
