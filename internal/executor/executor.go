// Package executor — цикл бота: позиция, канал, цель, сверка с биржей, действие, журнал.
package executor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"breakout_bot/internal/exchange"
	"breakout_bot/internal/metrics"
	"breakout_bot/internal/models"
	"breakout_bot/internal/position"
	"breakout_bot/internal/risk"
	"breakout_bot/internal/strategy"
	"breakout_bot/internal/tradelog"
	"breakout_bot/pkg/tracing"
)

type Config struct {
	Symbol        string  `mapstructure:"symbol" yaml:"symbol" default:"BTCUSDT" validate:"required"`
	Interval      string  `mapstructure:"interval" yaml:"interval" default:"1m" validate:"required"`
	ChannelLength int     `mapstructure:"channel_length" yaml:"channel_length" default:"1" validate:"min=1"`
	KlineLimit    int     `mapstructure:"kline_limit" yaml:"kline_limit" default:"5" validate:"gtfield=ChannelLength"`
	PriceOffset   float64 `mapstructure:"price_offset" yaml:"price_offset" default:"0.5" validate:"gte=0"`
	TickSize      float64 `mapstructure:"tick_size" yaml:"tick_size" default:"0.01" validate:"gt=0"`
	// FallbackHeldThreshold — граница «позиция уже есть» для рыночного fallback.
	FallbackHeldThreshold float64 `mapstructure:"fallback_held_threshold" yaml:"fallback_held_threshold" default:"0.0001" validate:"gt=0"`
}

// Executor прогоняет один цикл за вызов RunCycle. Между циклами состояния нет:
// позиция и ордера каждый раз читаются с биржи заново.
type Executor struct {
	cfg      Config
	ex       exchange.Exchange
	tracker  *position.Tracker
	channel  *strategy.Channel
	sizer    *risk.Sizer
	fallback FallbackPolicy
	journal  tradelog.Journal
	metrics  *metrics.Recorder
	log      *zap.Logger

	listeners []func(Report)
	now       func() time.Time
	newID     func() string
}

func New(
	cfg Config,
	ex exchange.Exchange,
	tracker *position.Tracker,
	sizer *risk.Sizer,
	journal tradelog.Journal,
	rec *metrics.Recorder,
	log *zap.Logger,
) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		cfg:      cfg,
		ex:       ex,
		tracker:  tracker,
		channel:  strategy.NewChannel(cfg.ChannelLength),
		sizer:    sizer,
		fallback: FallbackPolicy{HeldThreshold: cfg.FallbackHeldThreshold},
		journal:  journal,
		metrics:  rec,
		log:      log.Named("executor"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// OnCycle подписывает fn на отчёт каждого цикла.
func (e *Executor) OnCycle(fn func(Report)) {
	e.listeners = append(e.listeners, fn)
}

// RunCycle возвращает ошибку, только если цикл прерван (FETCH или отмена ордера).
// Отказ при выставлении ордера — это исход цикла, он лежит в Report.Err.
func (e *Executor) RunCycle(ctx context.Context) (Report, error) {
	rep := Report{CycleID: e.newID(), StartedAt: e.now()}
	log := e.log.With(zap.String("cycle_id", rep.CycleID))

	span, ctx := opentracing.StartSpanFromContext(ctx, "cycle")
	span.SetTag("cycle_id", rep.CycleID)
	defer span.Finish()
	if id := tracing.TraceID(span); id != "" {
		log = log.With(zap.String("trace_id", id))
	}

	err := e.run(ctx, log, &rep)
	if err != nil {
		rep.Err = err
		span.SetTag("error", true)
	}

	rep.Duration = e.now().Sub(rep.StartedAt)
	e.finish(log, rep)

	if rep.Outcome == OutcomeSkipped || rep.Outcome == OutcomeAborted {
		return rep, err
	}
	return rep, nil
}

func (e *Executor) run(ctx context.Context, log *zap.Logger, rep *Report) error {
	// FETCH_POSITION
	rep.Stage = StageFetchPosition
	pos, err := stage(ctx, rep.Stage, e.tracker.Current)
	if err != nil {
		rep.Outcome = OutcomeSkipped
		return errors.Wrap(err, "position unknown, skipping cycle")
	}
	rep.Position = pos
	e.metrics.RecordPosition(pos.Quantity)

	// FETCH_MARKET
	rep.Stage = StageFetchMarket
	candles, err := stage(ctx, rep.Stage, func(ctx context.Context) ([]models.Candle, error) {
		return e.ex.Klines(ctx, e.cfg.Symbol, e.cfg.Interval, e.cfg.KlineLimit)
	})
	if err != nil {
		rep.Outcome = OutcomeAborted
		return errors.Wrap(err, "fetch market")
	}
	rep.Bounds = e.channel.Bounds(candles)
	rep.Signal = e.channel.Classify(candles)
	if !rep.Bounds.Ready {
		rep.Outcome = OutcomeInsufficientData
		log.Info("not enough candles for channel", zap.Int("candles", len(candles)), zap.Int("length", e.cfg.ChannelLength))
		return nil
	}
	e.metrics.RecordChannel(rep.Bounds.Up, rep.Bounds.Down)

	// COMPUTE_TARGET
	rep.Stage = StageComputeTarget
	var buyQty float64
	if !pos.IsLong() {
		balance, err := e.tracker.QuoteBalance(ctx)
		if err != nil {
			// сайзер сам отдаст fallback-количество на нулевом балансе
			log.Warn("quote balance unavailable, sizing with fallback", zap.Error(err))
			balance = 0
		}
		buyQty = e.sizer.Size(balance)
	}
	rep.Target = Target(pos, rep.Bounds, e.cfg.PriceOffset, e.cfg.TickSize, buyQty)

	// RECONCILE
	rep.Stage = StageReconcile
	open, err := stage(ctx, rep.Stage, func(ctx context.Context) ([]models.OpenOrder, error) {
		return e.ex.OpenOrders(ctx, e.cfg.Symbol)
	})
	if err != nil {
		rep.Outcome = OutcomeAborted
		return errors.Wrap(err, "open orders")
	}
	rep.Plan = Reconcile(open, rep.Target, e.cfg.TickSize)

	// ACT
	rep.Stage = StageAct
	for _, id := range rep.Plan.ToCancel {
		if err := e.ex.CancelOrder(ctx, e.cfg.Symbol, id); err != nil {
			// без отмены новый ордер не ставим: два живых ордера хуже, чем ни одного
			rep.Outcome = OutcomeAborted
			return errors.Wrapf(err, "cancel stale order %d", id)
		}
		e.metrics.RecordCancel()
		log.Info("stale order cancelled", zap.Int64("order_id", id))
	}
	if !rep.Plan.ToPlace {
		rep.Outcome = OutcomeKept
		return nil
	}
	e.place(ctx, log, rep)
	return nil
}

func (e *Executor) place(ctx context.Context, log *zap.Logger, rep *Report) {
	req := models.OrderRequest{
		Symbol:        e.cfg.Symbol,
		Side:          rep.Target.Side,
		Type:          models.OrderTypeStopLoss,
		Quantity:      rep.Target.Quantity,
		StopPrice:     rep.Target.TriggerPrice,
		ClientOrderID: e.newID(),
	}
	ack, err := e.submit(ctx, log, req)
	if err == nil {
		rep.Acks = append(rep.Acks, ack)
		rep.Outcome = OutcomePlaced
		return
	}
	if !errors.Is(err, exchange.ErrWouldTriggerImmediately) {
		rep.Outcome = OutcomePlacementFailed
		rep.Err = err
		return
	}

	held, err := e.tracker.Held(ctx)
	if err != nil {
		rep.Outcome = OutcomeFallbackSkipped
		rep.Err = errors.Wrap(err, "held quantity for fallback")
		return
	}
	mreq, ok := e.fallback.Market(e.cfg.Symbol, rep.Target, held)
	if !ok {
		log.Info("fallback not needed", zap.String("side", string(rep.Target.Side)), zap.Float64("held", held))
		rep.Outcome = OutcomeFallbackSkipped
		return
	}
	mreq.ClientOrderID = e.newID()

	ack, err = e.submit(ctx, log, mreq)
	if err != nil {
		rep.Outcome = OutcomePlacementFailed
		rep.Err = err
		return
	}
	rep.Acks = append(rep.Acks, ack)
	rep.Outcome = OutcomeFallback
}

// submit выставляет ордер и пишет попытку в журнал при любом исходе.
func (e *Executor) submit(ctx context.Context, log *zap.Logger, req models.OrderRequest) (models.OrderAck, error) {
	log = log.With(
		zap.String("side", string(req.Side)),
		zap.String("type", string(req.Type)),
		zap.Float64("qty", req.Quantity),
		zap.Float64("stop_price", req.StopPrice),
	)

	ack, err := e.ex.CreateOrder(ctx, req)
	if err != nil {
		log.Warn("order rejected", zap.Error(err))
		e.metrics.RecordOrder(string(req.Side), string(req.Type), "error")
		e.record(ctx, log, tradelog.Failure(req, e.now().UTC(), err))
		return models.OrderAck{}, err
	}

	log.Info("order placed", zap.Int64("order_id", ack.OrderID), zap.String("status", ack.Status))
	e.metrics.RecordOrder(string(req.Side), string(req.Type), "ok")
	e.record(ctx, log, tradelog.FromAck(ack))
	return ack, nil
}

func (e *Executor) record(ctx context.Context, log *zap.Logger, entry tradelog.Entry) {
	if e.journal == nil {
		return
	}
	if err := e.journal.Record(ctx, entry); err != nil {
		log.Error("trade log write failed", zap.Error(err))
	}
}

// finish — шаг LOG: итоговая строка, метрики, подписчики.
func (e *Executor) finish(log *zap.Logger, rep Report) {
	fields := []zap.Field{
		zap.String("outcome", string(rep.Outcome)),
		zap.Duration("took", rep.Duration),
	}
	if rep.Err != nil {
		log.Warn(rep.String(), append(fields, zap.Error(rep.Err))...)
	} else {
		log.Info(rep.String(), fields...)
	}
	e.metrics.RecordCycle(string(rep.Outcome), rep.Duration)
	for _, fn := range e.listeners {
		fn(rep)
	}
}

// stage — дочерний span на каждый удалённый шаг.
func stage[T any](ctx context.Context, name Stage, fn func(context.Context) (T, error)) (T, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, string(name))
	defer span.Finish()
	v, err := fn(ctx)
	if err != nil {
		span.SetTag("error", true)
		span.LogKV("error", err.Error())
	}
	return v, err
}
