package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"breakout_bot/internal/models"
)

const tick = 0.01

func stop(id int64, side models.Side, px float64) models.OpenOrder {
	return models.OpenOrder{OrderID: id, Side: side, Type: models.OrderTypeStopLoss, TriggerPrice: px, Status: "NEW"}
}

func TestTarget(t *testing.T) {
	bounds := models.ChannelBounds{Up: 50100, Down: 49900, Ready: true}

	flat := Target(models.Position{State: models.PositionNone}, bounds, 0.5, tick, 0.08)
	assert.Equal(t, models.TargetOrder{Side: models.SideBuy, TriggerPrice: 50100.5, Quantity: 0.08}, flat)

	long := Target(models.Position{State: models.PositionLong, Quantity: 0.02}, bounds, 0.5, tick, 0.08)
	assert.Equal(t, models.TargetOrder{Side: models.SideSell, TriggerPrice: 49899.5, Quantity: 0.02}, long)
}

func TestReconcile_NoOpenOrders(t *testing.T) {
	plan := Reconcile(nil, models.TargetOrder{Side: models.SideBuy, TriggerPrice: 50100.5, Quantity: 0.08}, tick)

	assert.True(t, plan.ToPlace)
	assert.Empty(t, plan.ToCancel)
}

func TestReconcile_StalePriceIsReplaced(t *testing.T) {
	target := models.TargetOrder{Side: models.SideSell, TriggerPrice: 49899.5, Quantity: 0.02}

	plan := Reconcile([]models.OpenOrder{stop(42, models.SideSell, 49850)}, target, tick)

	assert.Equal(t, []int64{42}, plan.ToCancel)
	assert.True(t, plan.ToPlace)
}

func TestReconcile_UnchangedTargetKeepsOrder(t *testing.T) {
	target := models.TargetOrder{Side: models.SideBuy, TriggerPrice: 50100.5, Quantity: 0.08}

	plan := Reconcile([]models.OpenOrder{stop(7, models.SideBuy, 50100.5)}, target, tick)

	assert.Empty(t, plan.ToCancel)
	assert.False(t, plan.ToPlace)
	assert.Equal(t, int64(7), plan.KeptID)
}

func TestReconcile_PriceMatchedInTicks(t *testing.T) {
	target := models.TargetOrder{Side: models.SideBuy, TriggerPrice: 0.1 + 0.2}

	plan := Reconcile([]models.OpenOrder{stop(1, models.SideBuy, 0.3)}, target, tick)

	assert.False(t, plan.ToPlace)
	assert.Empty(t, plan.ToCancel)
}

func TestReconcile_WrongSideAtSamePriceIsCancelled(t *testing.T) {
	target := models.TargetOrder{Side: models.SideSell, TriggerPrice: 49899.5}

	plan := Reconcile([]models.OpenOrder{stop(3, models.SideBuy, 49899.5)}, target, tick)

	assert.Equal(t, []int64{3}, plan.ToCancel)
	assert.True(t, plan.ToPlace)
}

func TestReconcile_DuplicatesAtTargetAreCancelled(t *testing.T) {
	target := models.TargetOrder{Side: models.SideBuy, TriggerPrice: 50100.5}
	open := []models.OpenOrder{
		stop(1, models.SideBuy, 50100.5),
		stop(2, models.SideBuy, 50100.5),
		stop(3, models.SideBuy, 50000),
	}

	plan := Reconcile(open, target, tick)

	assert.Equal(t, int64(1), plan.KeptID)
	assert.Equal(t, []int64{2, 3}, plan.ToCancel)
	assert.False(t, plan.ToPlace)
}

func TestReconcile_ConvergesAfterApplyingPlan(t *testing.T) {
	target := models.TargetOrder{Side: models.SideSell, TriggerPrice: 49899.5, Quantity: 0.02}
	open := []models.OpenOrder{stop(10, models.SideSell, 49850), stop(11, models.SideBuy, 50200)}

	first := Reconcile(open, target, tick)
	assert.True(t, first.ToPlace)

	// биржа после отмен и выставления
	applied := []models.OpenOrder{stop(12, models.SideSell, target.TriggerPrice)}
	second := Reconcile(applied, target, tick)

	assert.False(t, second.ToPlace)
	assert.Empty(t, second.ToCancel)
}

func TestFallbackPolicy(t *testing.T) {
	p := FallbackPolicy{HeldThreshold: 0.0001}
	buy := models.TargetOrder{Side: models.SideBuy, TriggerPrice: 50100.5, Quantity: 0.08}
	sell := models.TargetOrder{Side: models.SideSell, TriggerPrice: 49899.5, Quantity: 0.02}

	req, ok := p.Market("BTCUSDT", buy, 0)
	assert.True(t, ok)
	assert.Equal(t, models.OrderRequest{Symbol: "BTCUSDT", Side: models.SideBuy, Type: models.OrderTypeMarket, Quantity: 0.08}, req)

	_, ok = p.Market("BTCUSDT", buy, 0.0001)
	assert.False(t, ok, "exposure already held")

	req, ok = p.Market("BTCUSDT", sell, 0.0199)
	assert.True(t, ok)
	assert.Equal(t, 0.0199, req.Quantity, "sells what is actually held")
	assert.Equal(t, models.OrderTypeMarket, req.Type)

	_, ok = p.Market("BTCUSDT", sell, 0.00005)
	assert.False(t, ok, "nothing to sell")
}
