package helper

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormTF приводит интервал свечей к виду биржи ("1M" не трогаем — это месяц).
func NormTF(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "1M" {
		return s
	}
	s = strings.ToLower(s)
	switch s {
	case "60m":
		return "1h"
	case "240m":
		return "4h"
	default:
		return s
	}
}

// Ticks — цена в целых шагах цены. Через неё сравниваем trigger price, а не через float ==.
func Ticks(px, tick float64) int64 {
	if tick <= 0 {
		return decimal.NewFromFloat(px).Round(8).Shift(8).IntPart()
	}
	return decimal.NewFromFloat(px).Div(decimal.NewFromFloat(tick)).Round(0).IntPart()
}

func SamePrice(a, b, tick float64) bool { return Ticks(a, tick) == Ticks(b, tick) }

// RoundToTick — ближайший шаг цены.
func RoundToTick(px, tick float64) float64 {
	if tick <= 0 {
		return px
	}
	t := decimal.NewFromFloat(tick)
	return decimal.NewFromFloat(px).Div(t).Round(0).Mul(t).InexactFloat64()
}

// RoundDownToStep — количество вниз до шага лота, чтобы не продать больше, чем есть.
func RoundDownToStep(qty, step float64) float64 {
	if step <= 0 {
		return qty
	}
	s := decimal.NewFromFloat(step)
	return decimal.NewFromFloat(qty).Div(s).Floor().Mul(s).InexactFloat64()
}

// RoundPlaces — обычное округление до places знаков.
func RoundPlaces(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FormatStep печатает значение с точностью шага: FormatStep(50100.5, 0.01) == "50100.50".
func FormatStep(v, step float64) string {
	return decimal.NewFromFloat(v).StringFixed(Places(step))
}

// Places — число знаков после запятой у шага (0.01 -> 2).
func Places(step float64) int32 {
	if step <= 0 {
		return 8
	}
	exp := decimal.NewFromFloat(step).Exponent()
	if exp >= 0 {
		return 0
	}
	return -exp
}
