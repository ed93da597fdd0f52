// Package metrics — Prometheus-метрики бота.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder держит свой registry, поэтому в тестах их можно создавать сколько угодно.
// Методы безопасны на nil.
type Recorder struct {
	reg *prometheus.Registry

	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	orders        *prometheus.CounterVec
	cancels       prometheus.Counter
	callFailures  *prometheus.CounterVec
	channel       *prometheus.GaugeVec
	position      prometheus.Gauge
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		cycles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breakout_bot_cycles_total",
				Help: "Completed cycles by outcome",
			},
			[]string{"outcome"},
		),
		cycleDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "breakout_bot_cycle_duration_seconds",
				Help:    "Cycle wall time including retry waits",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		orders: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breakout_bot_orders_total",
				Help: "Order placement attempts",
			},
			[]string{"side", "type", "result"},
		),
		cancels: f.NewCounter(
			prometheus.CounterOpts{
				Name: "breakout_bot_cancels_total",
				Help: "Cancelled stale orders",
			},
		),
		callFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "breakout_bot_call_failures_total",
				Help: "Failed exchange call attempts, before retry",
			},
			[]string{"op"},
		),
		channel: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "breakout_bot_channel_bound",
				Help: "Last channel bounds",
			},
			[]string{"bound"},
		),
		position: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "breakout_bot_position_quantity",
				Help: "Held base quantity, 0 when flat",
			},
		),
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Recorder) RecordCycle(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.cycles.WithLabelValues(outcome).Inc()
	r.cycleDuration.Observe(d.Seconds())
}

func (r *Recorder) RecordOrder(side, typ, result string) {
	if r == nil {
		return
	}
	r.orders.WithLabelValues(side, typ, result).Inc()
}

func (r *Recorder) RecordCancel() {
	if r == nil {
		return
	}
	r.cancels.Inc()
}

// RecordCallFailure подходит как retry.Observer.
func (r *Recorder) RecordCallFailure(op string, _ int, _ error) {
	if r == nil {
		return
	}
	r.callFailures.WithLabelValues(op).Inc()
}

func (r *Recorder) RecordChannel(up, down float64) {
	if r == nil {
		return
	}
	r.channel.WithLabelValues("up").Set(up)
	r.channel.WithLabelValues("down").Set(down)
}

func (r *Recorder) RecordPosition(qty float64) {
	if r == nil {
		return
	}
	r.position.Set(qty)
}
