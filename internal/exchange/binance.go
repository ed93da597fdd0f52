package exchange

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/pkg/errors"

	"breakout_bot/internal/helper"
	"breakout_bot/internal/models"
	"breakout_bot/internal/retry"
)

type BinanceConfig struct {
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	APISecret   string        `mapstructure:"api_secret" yaml:"api_secret"`
	Testnet     bool          `mapstructure:"testnet" yaml:"testnet" default:"true"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" yaml:"http_timeout" default:"10s"`
}

// Binance — spot REST через go-binance. Цены и количества форматируются по шагам инструмента.
type Binance struct {
	client    *binance.Client
	priceTick float64
	qtyStep   float64
}

func NewBinance(cfg BinanceConfig, priceTick, qtyStep float64) *Binance {
	// go-binance выбирает base URL по глобальному флагу в момент создания клиента
	binance.UseTestnet = cfg.Testnet
	c := binance.NewClient(cfg.APIKey, cfg.APISecret)
	c.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}
	return &Binance{client: c, priceTick: priceTick, qtyStep: qtyStep}
}

func (b *Binance) Balances(ctx context.Context) ([]models.Balance, error) {
	acc, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get account")
	}
	res := make([]models.Balance, 0, len(acc.Balances))
	for _, bal := range acc.Balances {
		res = append(res, models.Balance{
			Asset:  bal.Asset,
			Free:   parseFloat(bal.Free),
			Locked: parseFloat(bal.Locked),
		})
	}
	return res, nil
}

func (b *Binance) AssetBalance(ctx context.Context, asset string) (models.Balance, error) {
	balances, err := b.Balances(ctx)
	if err != nil {
		return models.Balance{}, errors.Wrapf(err, "asset balance %s", asset)
	}
	return FindBalance(balances, asset), nil
}

func (b *Binance) OpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error) {
	orders, err := b.client.NewListOpenOrdersService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "open orders %s", symbol)
	}
	res := make([]models.OpenOrder, 0, len(orders))
	for _, o := range orders {
		res = append(res, models.OpenOrder{
			OrderID:      o.OrderID,
			Side:         models.Side(o.Side),
			Type:         models.OrderType(o.Type),
			TriggerPrice: parseFloat(o.StopPrice),
			OrigQty:      parseFloat(o.OrigQuantity),
			Status:       string(o.Status),
		})
	}
	return res, nil
}

func (b *Binance) CreateOrder(ctx context.Context, req models.OrderRequest) (models.OrderAck, error) {
	svc := b.client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(binance.SideType(req.Side)).
		Type(binance.OrderType(req.Type)).
		Quantity(helper.FormatStep(req.Quantity, b.qtyStep))
	if req.Type == models.OrderTypeStopLoss {
		svc = svc.StopPrice(helper.FormatStep(req.StopPrice, b.priceTick))
	}
	if req.ClientOrderID != "" {
		svc = svc.NewClientOrderID(req.ClientOrderID)
	}

	resp, err := svc.Do(ctx)
	if err != nil {
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && isImmediateTriggerRejection(apiErr) {
			// детерминированный отказ: повторять бессмысленно, дальше решает fallback
			return models.OrderAck{}, retry.Permanent(
				errors.Wrapf(ErrWouldTriggerImmediately, "binance code=%d msg=%s", apiErr.Code, apiErr.Message))
		}
		return models.OrderAck{}, errors.Wrapf(err, "create %s %s order", req.Side, req.Type)
	}

	return models.OrderAck{
		Symbol:        resp.Symbol,
		OrderID:       resp.OrderID,
		ClientOrderID: resp.ClientOrderID,
		Side:          models.Side(resp.Side),
		Type:          models.OrderType(resp.Type),
		Status:        string(resp.Status),
		Price:         parseFloat(resp.Price),
		StopPrice:     req.StopPrice,
		ExecutedQty:   parseFloat(resp.ExecutedQuantity),
		OrigQty:       parseFloat(resp.OrigQuantity),
		TransactTime:  time.UnixMilli(resp.TransactTime),
	}, nil
}

// isImmediateTriggerRejection — единственное место, где смотрим на текст ошибки биржи:
// отдельного кода для этого отказа у spot API нет (приходит общий -2010).
func isImmediateTriggerRejection(apiErr *common.APIError) bool {
	return strings.Contains(strings.ToLower(apiErr.Message), "would trigger immediately")
}

func (b *Binance) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	_, err := b.client.NewCancelOrderService().Symbol(symbol).OrderID(orderID).Do(ctx)
	if err != nil {
		return errors.Wrapf(err, "cancel order %d", orderID)
	}
	return nil
}

func (b *Binance) Klines(ctx context.Context, symbol, interval string, limit int) ([]models.Candle, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(strings.ToUpper(symbol)).
		Interval(helper.NormTF(interval)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "klines %s %s", symbol, interval)
	}
	res := make([]models.Candle, 0, len(klines))
	for _, k := range klines {
		res = append(res, models.Candle{
			OpenTime: time.UnixMilli(k.OpenTime).UTC(),
			Open:     parseFloat(k.Open),
			High:     parseFloat(k.High),
			Low:      parseFloat(k.Low),
			Close:    parseFloat(k.Close),
			Volume:   parseFloat(k.Volume),
		})
	}
	return res, nil
}

func (b *Binance) MyTrades(ctx context.Context, symbol string, limit int) ([]models.Trade, error) {
	trades, err := b.client.NewListTradesService().Symbol(symbol).Limit(limit).Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "trade history %s", symbol)
	}
	res := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		res = append(res, models.Trade{
			ID:       t.ID,
			Time:     time.UnixMilli(t.Time).UTC(),
			Price:    parseFloat(t.Price),
			Quantity: parseFloat(t.Quantity),
			QuoteQty: parseFloat(t.QuoteQuantity),
			IsBuyer:  t.IsBuyer,
		})
	}
	return res, nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}
