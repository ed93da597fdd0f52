package models

// PositionState — есть ли у бота позиция в базовом активе.
type PositionState string

const (
	PositionNone PositionState = "NONE"
	PositionLong PositionState = "LONG"
)

// Position выводится из балансов биржи на каждом цикле, локально не хранится.
type Position struct {
	State    PositionState
	Quantity float64 // 0 при NONE
}

func (p Position) IsLong() bool { return p.State == PositionLong }

// Balance — free/locked по одному активу.
type Balance struct {
	Asset  string
	Free   float64
	Locked float64
}

func (b Balance) Total() float64 { return b.Free + b.Locked }
