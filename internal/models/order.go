package models

import "time"

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type OrderType string

const (
	OrderTypeStopLoss OrderType = "STOP_LOSS"
	OrderTypeMarket   OrderType = "MARKET"
)

// TargetOrder — единственный ордер, который должен висеть на бирже после цикла.
type TargetOrder struct {
	Side         Side
	TriggerPrice float64
	Quantity     float64
}

// OpenOrder — открытый ордер на бирже.
type OpenOrder struct {
	OrderID      int64
	Side         Side
	Type         OrderType
	TriggerPrice float64
	OrigQty      float64
	Status       string
}

type OrderRequest struct {
	Symbol        string
	Side          Side
	Type          OrderType
	Quantity      float64
	StopPrice     float64 // только для STOP_LOSS
	ClientOrderID string
}

// OrderAck — ответ биржи на создание ордера.
type OrderAck struct {
	Symbol        string
	OrderID       int64
	ClientOrderID string
	Side          Side
	Type          OrderType
	Status        string
	Price         float64
	StopPrice     float64
	ExecutedQty   float64
	OrigQty       float64
	TransactTime  time.Time
}

// Trade — исполненная сделка из истории аккаунта.
type Trade struct {
	ID       int64
	Time     time.Time
	Price    float64
	Quantity float64
	QuoteQty float64
	IsBuyer  bool
}
