// Package tradelog — журнал попыток выставления ордеров.
package tradelog

import (
	"context"
	"time"

	"breakout_bot/internal/models"
)

// Entry — одна попытка: успешная, fallback или отказ (тогда заполнен Error).
type Entry struct {
	Time        time.Time
	Symbol      string
	Side        models.Side
	Type        models.OrderType
	Status      string
	OrderID     int64
	Price       float64
	StopPrice   float64
	ExecutedQty float64
	OrigQty     float64
	Error       string
}

// Journal — append-only приёмник записей.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Close() error
}

const StatusError = "ERROR"

func FromAck(ack models.OrderAck) Entry {
	t := ack.TransactTime
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return Entry{
		Time:        t,
		Symbol:      ack.Symbol,
		Side:        ack.Side,
		Type:        ack.Type,
		Status:      ack.Status,
		OrderID:     ack.OrderID,
		Price:       ack.Price,
		StopPrice:   ack.StopPrice,
		ExecutedQty: ack.ExecutedQty,
		OrigQty:     ack.OrigQty,
	}
}

// Failure — строка для неудачной попытки: то, что пытались выставить, плюс текст ошибки.
func Failure(req models.OrderRequest, at time.Time, err error) Entry {
	e := Entry{
		Time:      at,
		Symbol:    req.Symbol,
		Side:      req.Side,
		Type:      req.Type,
		Status:    StatusError,
		StopPrice: req.StopPrice,
		OrigQty:   req.Quantity,
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
