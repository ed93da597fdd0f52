// Package pnl считает реализованный PnL по истории сделок аккаунта.
package pnl

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"breakout_bot/internal/models"
)

// Row — сделка после прогона через расчёт.
type Row struct {
	Time     time.Time
	Side     models.Side
	Price    float64
	Quantity float64
	PnL      float64
	Position float64
}

type Summary struct {
	Rows         []Row
	Trades       int
	ClosedTrades int
	Wins         int
	RealizedPnL  float64
	WinRate      float64 // в процентах, 0 если закрытых сделок нет
	Position     float64
	AvgEntry     float64
}

// Calculate проходит сделки от старых к новым. Покупки усредняют цену входа,
// продажи фиксируют (price - entry) * qty в пределах удерживаемого количества.
func Calculate(trades []models.Trade) Summary {
	sorted := append([]models.Trade(nil), trades...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Time.Equal(sorted[j].Time) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Time.Before(sorted[j].Time)
	})

	var (
		s        Summary
		position = decimal.Zero
		entry    = decimal.Zero
		realized = decimal.Zero
	)
	for _, t := range sorted {
		price := decimal.NewFromFloat(t.Price)
		qty := decimal.NewFromFloat(t.Quantity)
		row := Row{Time: t.Time, Price: t.Price, Quantity: t.Quantity}

		if t.IsBuyer {
			row.Side = models.SideBuy
			if position.IsZero() {
				entry = price
			} else {
				entry = position.Mul(entry).Add(qty.Mul(price)).Div(position.Add(qty))
			}
			position = position.Add(qty)
		} else {
			row.Side = models.SideSell
			s.ClosedTrades++
			if position.IsPositive() {
				closed := decimal.Min(qty, position)
				pnl := price.Sub(entry).Mul(closed)
				row.PnL = pnl.InexactFloat64()
				realized = realized.Add(pnl)
				position = position.Sub(closed)
				if pnl.IsPositive() {
					s.Wins++
				}
			}
		}

		row.Position = position.InexactFloat64()
		s.Rows = append(s.Rows, row)
	}

	s.Trades = len(sorted)
	s.RealizedPnL = realized.InexactFloat64()
	s.Position = position.InexactFloat64()
	if position.IsPositive() {
		s.AvgEntry = entry.InexactFloat64()
	}
	if s.ClosedTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.ClosedTrades) * 100
	}
	return s
}
