package exchange

import (
	"context"

	"github.com/pkg/errors"

	"breakout_bot/internal/models"
)

// ErrWouldTriggerImmediately — биржа отклонила стоп-ордер: цена триггера уже пройдена.
var ErrWouldTriggerImmediately = errors.New("stop price would trigger immediately")

// Exchange — всё, что ядру нужно от биржи.
type Exchange interface {
	Balances(ctx context.Context) ([]models.Balance, error)
	AssetBalance(ctx context.Context, asset string) (models.Balance, error)
	OpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error)
	CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderAck, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	Klines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error)
	MyTrades(ctx context.Context, symbol string, limit int) ([]models.Trade, error)
}

// FindBalance возвращает баланс актива или нулевой, если актива нет в списке.
func FindBalance(balances []models.Balance, asset string) models.Balance {
	for _, b := range balances {
		if b.Asset == asset {
			return b
		}
	}
	return models.Balance{Asset: asset}
}
