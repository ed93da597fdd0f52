package exchange

import (
	"context"

	"breakout_bot/internal/models"
	"breakout_bot/internal/retry"
)

// Retrying оборачивает каждый вызов биржи в retry.Do с одной политикой.
type Retrying struct {
	next   Exchange
	caller *retry.Caller
	policy retry.Policy
}

func NewRetrying(next Exchange, caller *retry.Caller, policy retry.Policy) *Retrying {
	return &Retrying{next: next, caller: caller, policy: policy}
}

func (r *Retrying) Balances(ctx context.Context) ([]models.Balance, error) {
	return retry.Do(ctx, r.caller, r.policy, "get_account", r.next.Balances)
}

func (r *Retrying) AssetBalance(ctx context.Context, asset string) (models.Balance, error) {
	return retry.Do(ctx, r.caller, r.policy, "get_asset_balance", func(ctx context.Context) (models.Balance, error) {
		return r.next.AssetBalance(ctx, asset)
	})
}

func (r *Retrying) OpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error) {
	return retry.Do(ctx, r.caller, r.policy, "get_open_orders", func(ctx context.Context) ([]models.OpenOrder, error) {
		return r.next.OpenOrders(ctx, symbol)
	})
}

// CreateOrder: повтор идёт с тем же ClientOrderID, поэтому дубль биржа отклонит.
func (r *Retrying) CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderAck, error) {
	return retry.Do(ctx, r.caller, r.policy, "create_order", func(ctx context.Context) (models.OrderAck, error) {
		return r.next.CreateOrder(ctx, req)
	})
}

func (r *Retrying) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	return retry.Exec(ctx, r.caller, r.policy, "cancel_order", func(ctx context.Context) error {
		return r.next.CancelOrder(ctx, symbol, orderID)
	})
}

func (r *Retrying) Klines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	return retry.Do(ctx, r.caller, r.policy, "get_klines", func(ctx context.Context) ([]models.Candle, error) {
		return r.next.Klines(ctx, symbol, interval, limit)
	})
}

func (r *Retrying) MyTrades(ctx context.Context, symbol string, limit int) ([]models.Trade, error) {
	return retry.Do(ctx, r.caller, r.policy, "get_my_trades", func(ctx context.Context) ([]models.Trade, error) {
		return r.next.MyTrades(ctx, symbol, limit)
	})
}
