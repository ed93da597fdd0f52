// Package retry — ограниченные повторы с экспоненциальной задержкой и jitter
// для любых ненадёжных удалённых вызовов.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy — параметры одного вызова Do.
type Policy struct {
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts" default:"5" validate:"min=1"`
	BaseDelay   time.Duration `mapstructure:"base_delay" yaml:"base_delay" default:"3s"`
	Backoff     float64       `mapstructure:"backoff" yaml:"backoff" default:"2" validate:"gte=1"`
	Jitter      bool          `mapstructure:"jitter" yaml:"jitter" default:"true"`
}

// Delay — пауза после неудачной попытки attempt (нумерация с 1), без jitter.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Backoff, float64(attempt-1)))
}

// ExhaustedError — все попытки исчерпаны. Unwrap отдаёт последнюю ошибку как есть.
type ExhaustedError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent помечает ошибку как не требующую повторов (детерминированный отказ биржи).
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// result — исход одной попытки.
type result[T any] struct {
	value T
	err   error
}

func (r result[T]) ok() bool { return r.err == nil }

// Observer получает каждую неудачную попытку (метрики).
type Observer func(op string, attempt int, err error)

// Caller хранит зависимости ретраев; между вызовами состояния нет.
type Caller struct {
	log      *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	jitter   func() float64
	observer Observer
}

type Option func(*Caller)

// WithSleep подменяет ожидание (для тестов).
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Caller) { c.sleep = fn }
}

// WithJitterSource — источник множителя в [0.8, 1.2].
func WithJitterSource(fn func() float64) Option {
	return func(c *Caller) { c.jitter = fn }
}

func WithObserver(o Observer) Option {
	return func(c *Caller) { c.observer = o }
}

func NewCaller(log *zap.Logger, opts ...Option) *Caller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Caller{
		log:    log,
		sleep:  sleepCtx,
		jitter: func() float64 { return 0.8 + rand.Float64()*0.4 },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do вызывает fn до p.MaxAttempts раз. Любая ошибка считается временной,
// кроме помеченных Permanent. После исчерпания возвращает *ExhaustedError.
func Do[T any](ctx context.Context, c *Caller, p Policy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last result[T]
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := fn(ctx)
		last = result[T]{value: v, err: err}
		if last.ok() {
			if attempt > 1 {
				c.log.Info("call recovered", zap.String("op", op), zap.Int("attempt", attempt))
			}
			return last.value, nil
		}

		if c.observer != nil {
			c.observer(op, attempt, err)
		}
		c.log.Warn("call failed",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err),
		)

		if IsPermanent(err) {
			var zero T
			return zero, &ExhaustedError{Op: op, Attempts: attempt, Err: err}
		}
		if attempt == maxAttempts {
			break
		}

		wait := p.Delay(attempt)
		if p.Jitter {
			wait = time.Duration(float64(wait) * c.jitter())
		}
		c.log.Info("retrying", zap.String("op", op), zap.Duration("wait", wait))
		if err := c.sleep(ctx, wait); err != nil {
			var zero T
			return zero, &ExhaustedError{Op: op, Attempts: attempt, Err: last.err}
		}
	}

	c.log.Error("max retries reached", zap.String("op", op), zap.Int("attempts", maxAttempts), zap.Error(last.err))
	var zero T
	return zero, &ExhaustedError{Op: op, Attempts: maxAttempts, Err: last.err}
}

// Exec — Do для вызовов без результата.
func Exec(ctx context.Context, c *Caller, p Policy, op string, fn func(ctx context.Context) error) error {
	_, err := Do(ctx, c, p, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
