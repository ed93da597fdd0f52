package executor

import (
	"fmt"
	"strings"
	"time"

	"breakout_bot/internal/models"
)

// Stage — шаг цикла, на котором он закончился.
type Stage string

const (
	StageFetchPosition Stage = "FETCH_POSITION"
	StageFetchMarket   Stage = "FETCH_MARKET"
	StageComputeTarget Stage = "COMPUTE_TARGET"
	StageReconcile     Stage = "RECONCILE"
	StageAct           Stage = "ACT"
)

type Outcome string

const (
	OutcomeInsufficientData Outcome = "insufficient_data"
	OutcomeKept             Outcome = "kept"
	OutcomePlaced           Outcome = "placed"
	OutcomeFallback         Outcome = "fallback"
	OutcomeFallbackSkipped  Outcome = "fallback_skipped"
	OutcomePlacementFailed  Outcome = "placement_failed"
	OutcomeSkipped          Outcome = "skipped"
	OutcomeAborted          Outcome = "aborted"
)

// Report — итог одного цикла для логов, уведомлений и health.
type Report struct {
	CycleID   string
	StartedAt time.Time
	Duration  time.Duration
	Stage     Stage
	Outcome   Outcome

	Position models.Position
	Bounds   models.ChannelBounds
	Signal   models.Signal
	Target   models.TargetOrder
	Plan     Plan
	Acks     []models.OrderAck
	Err      error
}

// Notable — цикл что-то изменил на бирже или сломался; такие шлём в уведомления.
func (r Report) Notable() bool {
	switch r.Outcome {
	case OutcomeKept, OutcomeInsufficientData:
		return false
	default:
		return true
	}
}

// String — строка статуса для консоли и Telegram.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", r.StartedAt.UTC().Format("15:04:05"), r.Outcome)
	if r.Position.State != "" {
		fmt.Fprintf(&b, " pos=%s", r.Position.State)
		if r.Position.IsLong() {
			fmt.Fprintf(&b, "(%g)", r.Position.Quantity)
		}
	}
	if r.Bounds.Ready {
		fmt.Fprintf(&b, " up=%.2f down=%.2f signal=%s", r.Bounds.Up, r.Bounds.Down, r.Signal)
	}
	if r.Target.Side != "" {
		fmt.Fprintf(&b, " target=%s@%.2f qty=%g", r.Target.Side, r.Target.TriggerPrice, r.Target.Quantity)
	}
	if n := len(r.Plan.ToCancel); n > 0 {
		fmt.Fprintf(&b, " cancelled=%d", n)
	}
	for _, a := range r.Acks {
		fmt.Fprintf(&b, " order=%d(%s %s %s)", a.OrderID, a.Side, a.Type, a.Status)
	}
	if r.Err != nil {
		fmt.Fprintf(&b, " stage=%s err=%v", r.Stage, r.Err)
	}
	return b.String()
}
