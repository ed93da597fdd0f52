package risk

import (
	"math"

	"github.com/shopspring/decimal"
)

// SizerConfig — линейное масштабирование: BasePosition на каждые BaseCapital капитала.
type SizerConfig struct {
	BaseCapital      float64 `mapstructure:"base_capital" yaml:"base_capital" default:"1000000" validate:"gt=0"`
	BasePosition     float64 `mapstructure:"base_position" yaml:"base_position" default:"8" validate:"gt=0"`
	Precision        int32   `mapstructure:"precision" yaml:"precision" default:"4" validate:"gte=0,lte=8"`
	MinQuantity      float64 `mapstructure:"min_quantity" yaml:"min_quantity" default:"0.0001" validate:"gt=0"`
	FallbackQuantity float64 `mapstructure:"fallback_quantity" yaml:"fallback_quantity" default:"8" validate:"gtefield=MinQuantity"`
}

type Sizer struct {
	cfg SizerConfig
}

func NewSizer(cfg SizerConfig) *Sizer {
	return &Sizer{cfg: cfg}
}

// Size переводит капитал в количество базового актива.
//
// Баланс <= 0 (или не получен) даёт FallbackQuantity, а не ноль: бот продолжает
// работать, но размер в этом случае не привязан к капиталу.
func (s *Sizer) Size(balance float64) float64 {
	if balance <= 0 || math.IsNaN(balance) || math.IsInf(balance, 0) {
		return s.cfg.FallbackQuantity
	}

	qty := decimal.NewFromFloat(s.cfg.BasePosition).
		Mul(decimal.NewFromFloat(balance)).
		Div(decimal.NewFromFloat(s.cfg.BaseCapital)).
		Round(s.cfg.Precision).
		InexactFloat64()

	return math.Max(qty, s.cfg.MinQuantity)
}
