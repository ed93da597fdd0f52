package executor

import (
	"breakout_bot/internal/helper"
	"breakout_bot/internal/models"
)

// Plan — что сделать с открытыми ордерами, чтобы остался ровно один на цене цели.
type Plan struct {
	ToCancel []int64
	ToPlace  bool
	// KeptID — ордер, который уже стоит на цели (0, если такого нет).
	KeptID int64
}

// Reconcile сравнивает открытые ордера с целью. Совпадение — та же сторона и та же
// цена в целых тиках. Первое совпадение остаётся, всё прочее, включая дубли, снимаем.
func Reconcile(open []models.OpenOrder, target models.TargetOrder, tick float64) Plan {
	var plan Plan
	want := helper.Ticks(target.TriggerPrice, tick)

	for _, o := range open {
		if plan.KeptID == 0 && o.Side == target.Side && helper.Ticks(o.TriggerPrice, tick) == want {
			plan.KeptID = o.OrderID
			continue
		}
		plan.ToCancel = append(plan.ToCancel, o.OrderID)
	}
	plan.ToPlace = plan.KeptID == 0
	return plan
}

// Target — единственный ордер, который должен стоять после цикла.
func Target(pos models.Position, bounds models.ChannelBounds, offset, tick, buyQty float64) models.TargetOrder {
	if pos.IsLong() {
		return models.TargetOrder{
			Side:         models.SideSell,
			TriggerPrice: helper.RoundToTick(bounds.Down-offset, tick),
			Quantity:     pos.Quantity,
		}
	}
	return models.TargetOrder{
		Side:         models.SideBuy,
		TriggerPrice: helper.RoundToTick(bounds.Up+offset, tick),
		Quantity:     buyQty,
	}
}
