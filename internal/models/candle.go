package models

import "time"

// Candle — OHLCV свеча, последовательность от старой к новой.
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// ChannelBounds — границы канала для одной свечи, посчитанные по предыдущим свечам.
// Ready=false, если истории не хватает.
type ChannelBounds struct {
	Up    float64
	Down  float64
	Ready bool
}
