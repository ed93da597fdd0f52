package executor

import (
	"breakout_bot/internal/models"
)

// FallbackPolicy решает, чем заменить стоп-ордер, который биржа отвергла
// из-за того, что цена уже за триггером.
type FallbackPolicy struct {
	// HeldThreshold — от какого остатка базового актива считаем, что экспозиция уже есть.
	HeldThreshold float64
}

// Market возвращает рыночный ордер взамен отвергнутого стопа, либо ok=false,
// если нужная экспозиция уже набрана (BUY) или продавать нечего (SELL).
func (p FallbackPolicy) Market(symbol string, target models.TargetOrder, held float64) (req models.OrderRequest, ok bool) {
	switch target.Side {
	case models.SideBuy:
		if held >= p.HeldThreshold {
			return models.OrderRequest{}, false
		}
		return models.OrderRequest{
			Symbol:   symbol,
			Side:     models.SideBuy,
			Type:     models.OrderTypeMarket,
			Quantity: target.Quantity,
		}, true
	case models.SideSell:
		if held < p.HeldThreshold {
			return models.OrderRequest{}, false
		}
		return models.OrderRequest{
			Symbol:   symbol,
			Side:     models.SideSell,
			Type:     models.OrderTypeMarket,
			Quantity: held,
		}, true
	default:
		return models.OrderRequest{}, false
	}
}
