package position

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakout_bot/internal/exchange/exchangetest"
	"breakout_bot/internal/models"
)

var cfg = Config{BaseAsset: "BTC", QuoteAsset: "USDT", LongThreshold: 0.00015, LotStep: 0.0001}

func TestCurrent_Threshold(t *testing.T) {
	cases := []struct {
		name   string
		free   float64
		locked float64
		want   models.Position
	}{
		{"empty", 0, 0, models.Position{State: models.PositionNone}},
		{"dust below threshold", 0.0001, 0.00004, models.Position{State: models.PositionNone}},
		{"exactly threshold", 0.00015, 0, models.Position{State: models.PositionLong, Quantity: 0.0001}},
		{"locked counts", 0, 0.5, models.Position{State: models.PositionLong, Quantity: 0.5}},
		{"floored to lot", 0.01237, 0.00001, models.Position{State: models.PositionLong, Quantity: 0.0123}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := exchangetest.New()
			fake.BalanceList = []models.Balance{{Asset: "BTC", Free: tc.free, Locked: tc.locked}}

			got, err := NewTracker(cfg, fake, nil).Current(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.want.State, got.State)
			assert.InDelta(t, tc.want.Quantity, got.Quantity, 1e-12)
		})
	}
}

func TestCurrent_ErrorPropagates(t *testing.T) {
	fake := exchangetest.New()
	down := errors.New("unreachable")
	fake.Fail(exchangetest.OpAssetBalance, down)

	_, err := NewTracker(cfg, fake, nil).Current(context.Background())
	assert.ErrorIs(t, err, down)
}

func TestQuoteBalanceUsesFree(t *testing.T) {
	fake := exchangetest.New()
	fake.BalanceList = []models.Balance{{Asset: "USDT", Free: 1500, Locked: 250}}

	got, err := NewTracker(cfg, fake, nil).QuoteBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500.0, got)
}

func TestHeldBelowThresholdStillReported(t *testing.T) {
	fake := exchangetest.New()
	fake.BalanceList = []models.Balance{{Asset: "BTC", Free: 0.00012}}

	got, err := NewTracker(cfg, fake, nil).Held(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.0001, got, 1e-12)
}
