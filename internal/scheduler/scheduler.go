// Package scheduler запускает циклы бота в заданные секунды минуты.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	// Windows — интервалы секунд минуты, включительно: "0-2,6-9,...".
	Windows string        `mapstructure:"windows" yaml:"windows" default:"0-2,6-9,13-15,18-20,24-26,30-32,36-38,42-44,48-50,55-57" validate:"required"`
	Pause   time.Duration `mapstructure:"pause" yaml:"pause" default:"4s"`
	Poll    time.Duration `mapstructure:"poll" yaml:"poll" default:"1s" validate:"gt=0"`
}

type Window struct {
	From, To int
}

func (w Window) contains(sec int) bool { return sec >= w.From && sec <= w.To }

// ParseWindows разбирает "a-b,c,d-e". Одиночное число — окно из одной секунды.
func ParseWindows(raw string) ([]Window, error) {
	var res []Window
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, found := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", part, err)
		}
		to := from
		if found {
			if to, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("window %q: %w", part, err)
			}
		}
		if from < 0 || to > 59 || from > to {
			return nil, fmt.Errorf("window %q: want 0 <= from <= to <= 59", part)
		}
		res = append(res, Window{From: from, To: to})
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("no windows in %q", raw)
	}
	return res, nil
}

type Scheduler struct {
	windows []Window
	pause   time.Duration
	poll    time.Duration
	log     *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(cfg Config, log *zap.Logger) (*Scheduler, error) {
	windows, err := ParseWindows(cfg.Windows)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		windows: windows,
		pause:   cfg.Pause,
		poll:    cfg.Poll,
		log:     log.Named("scheduler"),
		now:     time.Now,
		sleep:   sleepCtx,
	}, nil
}

func (s *Scheduler) InWindow(t time.Time) bool {
	sec := t.Second()
	for _, w := range s.windows {
		if w.contains(sec) {
			return true
		}
	}
	return false
}

// Run крутит цикл до отмены ctx. Сам цикл получает контекст без отмены:
// начатый цикл всегда доходит до конца, остановка проверяется между циклами.
func (s *Scheduler) Run(ctx context.Context, cycle func(ctx context.Context)) error {
	s.log.Info("scheduler started", zap.Int("windows", len(s.windows)))
	cycleCtx := context.WithoutCancel(ctx)

	for {
		if ctx.Err() != nil {
			s.log.Info("scheduler stopped")
			return nil
		}

		wait := s.poll
		if s.InWindow(s.now()) {
			cycle(cycleCtx)
			wait = s.pause
		}

		if err := s.sleep(ctx, wait); err != nil {
			s.log.Info("scheduler stopped")
			return nil
		}
	}
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
