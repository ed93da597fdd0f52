package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"breakout_bot/internal/models"
	"breakout_bot/internal/pnl"
)

func TestBalances(t *testing.T) {
	out := Balances("BTCUSDT",
		[]models.Balance{{Asset: "BTC", Free: 0.02, Locked: 0.01}, {Asset: "USDT", Free: 9500}},
		[]models.OpenOrder{{OrderID: 77, Side: models.SideSell, Type: models.OrderTypeStopLoss, TriggerPrice: 49899.5, OrigQty: 0.03, Status: "NEW"}},
	)

	assert.Contains(t, out, "BTC")
	assert.Contains(t, out, "0.02")
	assert.Contains(t, out, "9500")
	assert.Contains(t, out, "49899.5")
	assert.Contains(t, out, "STOP_LOSS")
}

func TestBalances_NoOrders(t *testing.T) {
	out := Balances("BTCUSDT", nil, nil)
	assert.Contains(t, out, "none")
}

func TestPnL(t *testing.T) {
	s := pnl.Calculate([]models.Trade{
		{ID: 1, Time: time.Unix(100, 0), Price: 100, Quantity: 1, IsBuyer: true},
		{ID: 2, Time: time.Unix(200, 0), Price: 110, Quantity: 1},
	})

	out := PnL("BTCUSDT", "BTC", s, 60)

	assert.Contains(t, out, "Total Trades: 2")
	assert.Contains(t, out, "Closed Trades: 1")
	assert.Contains(t, out, "10.00")
	assert.Contains(t, out, "Win Rate: 100.0%")
	assert.Contains(t, out, "Current Position: 0.000000 BTC")
}

func TestPnL_Empty(t *testing.T) {
	assert.Equal(t, "No trades found.\n", PnL("BTCUSDT", "BTC", pnl.Summary{}, 10))
}
