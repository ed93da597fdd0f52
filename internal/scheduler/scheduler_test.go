package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultWindows = "0-2,6-9,13-15,18-20,24-26,30-32,36-38,42-44,48-50,55-57"

func TestParseWindows(t *testing.T) {
	w, err := ParseWindows("0-2, 6-9,30")
	require.NoError(t, err)
	assert.Equal(t, []Window{{0, 2}, {6, 9}, {30, 30}}, w)

	for _, bad := range []string{"", "5-3", "0-60", "x-2", "1-y", "-1"} {
		_, err := ParseWindows(bad)
		assert.Error(t, err, bad)
	}
}

func TestInWindow(t *testing.T) {
	s, err := New(Config{Windows: defaultWindows, Pause: 4 * time.Second, Poll: time.Second}, nil)
	require.NoError(t, err)

	at := func(sec int) time.Time { return time.Date(2024, 1, 1, 10, 0, sec, 0, time.UTC) }
	for _, sec := range []int{0, 2, 6, 9, 30, 57} {
		assert.True(t, s.InWindow(at(sec)), "sec=%d", sec)
	}
	for _, sec := range []int{3, 5, 10, 12, 29, 58, 59} {
		assert.False(t, s.InWindow(at(sec)), "sec=%d", sec)
	}
}

// fakeClock двигает время только во время sleep.
type fakeClock struct {
	t      time.Time
	waits  []time.Duration
	cancel context.CancelFunc
	budget time.Duration
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	c.waits = append(c.waits, d)
	c.t = c.t.Add(d)
	c.budget -= d
	if c.budget <= 0 {
		c.cancel()
	}
	return ctx.Err()
}

func TestRun_CyclesOnlyInsideWindows(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := &fakeClock{t: time.Date(2024, 1, 1, 10, 0, 3, 0, time.UTC), cancel: cancel, budget: 60 * time.Second}

	s, err := New(Config{Windows: "6-9,30-32", Pause: 4 * time.Second, Poll: time.Second}, nil)
	require.NoError(t, err)
	s.now = clock.now
	s.sleep = clock.sleep

	var ran []int
	err = s.Run(ctx, func(cctx context.Context) {
		assert.NoError(t, cctx.Err())
		ran = append(ran, clock.t.Second())
	})

	require.NoError(t, err)
	// 3,4,5 — ожидание; 6 — цикл и пауза 4с до 10; 30 — цикл, пауза до 34
	assert.Equal(t, []int{6, 30}, ran)
	assert.Contains(t, clock.waits, 4*time.Second)
}

func TestRun_CycleContextSurvivesShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, err := New(Config{Windows: "0-59", Pause: time.Second, Poll: time.Second}, nil)
	require.NoError(t, err)

	calls := 0
	err = s.Run(ctx, func(cctx context.Context) {
		calls++
		cancel()
		assert.NoError(t, cctx.Err(), "running cycle is not interrupted")
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
