package strategy

import (
	"fmt"

	"breakout_bot/internal/models"
)

// Channel — пробой канала (highest high / lowest low) по предыдущим Length свечам.
// Текущая свеча в окно не входит.
type Channel struct {
	Length int
}

func NewChannel(length int) *Channel {
	if length <= 0 {
		length = 1
	}
	return &Channel{Length: length}
}

// boundsAt — канал для свечи i: high[i-L..i-1], low[i-L..i-1].
func (s *Channel) boundsAt(candles []models.Candle, i int) models.ChannelBounds {
	if i < s.Length || i >= len(candles) {
		return models.ChannelBounds{}
	}
	window := candles[i-s.Length : i]
	return models.ChannelBounds{
		Up:    maxHigh(window),
		Down:  minLow(window),
		Ready: true,
	}
}

// Bounds — канал для последней свечи. Нужно минимум Length+1 свечей.
func (s *Channel) Bounds(candles []models.Candle) models.ChannelBounds {
	return s.boundsAt(candles, len(candles)-1)
}

// Series — канал для каждой свечи последовательности.
func (s *Channel) Series(candles []models.Candle) []models.ChannelBounds {
	out := make([]models.ChannelBounds, len(candles))
	for i := range candles {
		out[i] = s.boundsAt(candles, i)
	}
	return out
}

// Classify смотрит на последнюю свечу и канал перед ней.
// Если свеча пробила обе границы, BUY важнее: он проверяется первым.
func (s *Channel) Classify(candles []models.Candle) models.Signal {
	b := s.Bounds(candles)
	if !b.Ready {
		return models.SignalInsufficientData
	}
	last := candles[len(candles)-1]
	switch {
	case last.High > b.Up:
		return models.SignalBuy
	case last.Low < b.Down:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}

// Dump — для логов.
func (s *Channel) Dump(candles []models.Candle) string {
	b := s.Bounds(candles)
	if !b.Ready {
		return fmt.Sprintf("Channel[length=%d]: warmup (%d candles)", s.Length, len(candles))
	}
	return fmt.Sprintf("Channel[length=%d] up=%.2f down=%.2f", s.Length, b.Up, b.Down)
}

func maxHigh(cs []models.Candle) float64 {
	m := cs[0].High
	for _, c := range cs[1:] {
		if c.High > m {
			m = c.High
		}
	}
	return m
}

func minLow(cs []models.Candle) float64 {
	m := cs[0].Low
	for _, c := range cs[1:] {
		if c.Low < m {
			m = c.Low
		}
	}
	return m
}
