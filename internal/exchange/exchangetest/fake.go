// Package exchangetest — in-memory биржа для тестов.
package exchangetest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"breakout_bot/internal/models"
)

// Имена операций для Fail и Calls.
const (
	OpBalances     = "balances"
	OpAssetBalance = "asset_balance"
	OpOpenOrders   = "open_orders"
	OpCreateOrder  = "create_order"
	OpCancelOrder  = "cancel_order"
	OpKlines       = "klines"
	OpMyTrades     = "my_trades"
)

// Fake хранит состояние аккаунта и пишет журнал вызовов.
// STOP_LOSS ордера после создания попадают в Orders, MARKET сразу считаются исполненными.
type Fake struct {
	mu sync.Mutex

	BalanceList []models.Balance
	Orders      []models.OpenOrder
	Candles     []models.Candle
	TradeList   []models.Trade

	// RejectCreate, если задан, решает судьбу каждого CreateOrder до записи ордера.
	RejectCreate func(req models.OrderRequest) error

	Created   []models.OrderRequest
	Cancelled []int64
	Calls     map[string]int

	errs   map[string][]error
	nextID int64
}

func New() *Fake {
	return &Fake{Calls: map[string]int{}, errs: map[string][]error{}, nextID: 1000}
}

// Fail ставит в очередь ошибки для операции: по одной на вызов.
func (f *Fake) Fail(op string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = append(f.errs[op], errs...)
}

func (f *Fake) enter(op string) error {
	f.Calls[op]++
	q := f.errs[op]
	if len(q) == 0 {
		return nil
	}
	f.errs[op] = q[1:]
	return q[0]
}

// OrderCalls — сколько раз дёрнули ордерные эндпоинты.
func (f *Fake) OrderCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[OpOpenOrders] + f.Calls[OpCreateOrder] + f.Calls[OpCancelOrder]
}

func (f *Fake) Balances(context.Context) ([]models.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpBalances); err != nil {
		return nil, err
	}
	return append([]models.Balance(nil), f.BalanceList...), nil
}

func (f *Fake) AssetBalance(_ context.Context, asset string) (models.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpAssetBalance); err != nil {
		return models.Balance{}, err
	}
	for _, b := range f.BalanceList {
		if b.Asset == asset {
			return b, nil
		}
	}
	return models.Balance{Asset: asset}, nil
}

func (f *Fake) OpenOrders(context.Context, string) ([]models.OpenOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpOpenOrders); err != nil {
		return nil, err
	}
	return append([]models.OpenOrder(nil), f.Orders...), nil
}

func (f *Fake) CreateOrder(_ context.Context, req models.OrderRequest) (models.OrderAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpCreateOrder); err != nil {
		return models.OrderAck{}, err
	}
	f.Created = append(f.Created, req)
	if f.RejectCreate != nil {
		if err := f.RejectCreate(req); err != nil {
			return models.OrderAck{}, err
		}
	}

	f.nextID++
	ack := models.OrderAck{
		Symbol:        req.Symbol,
		OrderID:       f.nextID,
		ClientOrderID: req.ClientOrderID,
		Side:          req.Side,
		Type:          req.Type,
		StopPrice:     req.StopPrice,
		OrigQty:       req.Quantity,
		TransactTime:  time.Unix(1_700_000_000, 0).UTC(),
	}
	switch req.Type {
	case models.OrderTypeStopLoss:
		ack.Status = "NEW"
		f.Orders = append(f.Orders, models.OpenOrder{
			OrderID:      ack.OrderID,
			Side:         req.Side,
			Type:         req.Type,
			TriggerPrice: req.StopPrice,
			OrigQty:      req.Quantity,
			Status:       ack.Status,
		})
	default:
		ack.Status = "FILLED"
		ack.ExecutedQty = req.Quantity
	}
	return ack, nil
}

func (f *Fake) CancelOrder(_ context.Context, _ string, orderID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpCancelOrder); err != nil {
		return err
	}
	for i, o := range f.Orders {
		if o.OrderID == orderID {
			f.Orders = append(f.Orders[:i], f.Orders[i+1:]...)
			f.Cancelled = append(f.Cancelled, orderID)
			return nil
		}
	}
	return fmt.Errorf("order %d does not exist", orderID)
}

func (f *Fake) Klines(_ context.Context, _, _ string, limit int) ([]models.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpKlines); err != nil {
		return nil, err
	}
	c := f.Candles
	if limit > 0 && len(c) > limit {
		c = c[len(c)-limit:]
	}
	return append([]models.Candle(nil), c...), nil
}

func (f *Fake) MyTrades(_ context.Context, _ string, limit int) ([]models.Trade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(OpMyTrades); err != nil {
		return nil, err
	}
	t := f.TradeList
	if limit > 0 && len(t) > limit {
		t = t[len(t)-limit:]
	}
	return append([]models.Trade(nil), t...), nil
}

// CandlesHL строит свечи из пар high/low, по минуте на свечу.
func CandlesHL(pairs ...[2]float64) []models.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	res := make([]models.Candle, 0, len(pairs))
	for i, p := range pairs {
		mid := (p[0] + p[1]) / 2
		res = append(res, models.Candle{
			OpenTime: start.Add(time.Duration(i) * time.Minute),
			Open:     mid,
			High:     p[0],
			Low:      p[1],
			Close:    mid,
			Volume:   1,
		})
	}
	return res
}
