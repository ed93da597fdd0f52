package models

// Signal — результат классификации пробоя канала.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
	// SignalInsufficientData — посчитать канал нельзя, это не то же самое что HOLD.
	SignalInsufficientData Signal = "INSUFFICIENT_DATA"
)
