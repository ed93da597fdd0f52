package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastCycleUnix atomic.Int64 // unix seconds
	lastOutcome   atomic.Value // string
	lastSummary   atomic.Value // string
	cycles        atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	s.lastOutcome.Store("")
	s.lastSummary.Store("")
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

// CycleDone — отметка о завершённом цикле; первый цикл переводит сервис в ready.
func (s *State) CycleDone(outcome, summary string, at time.Time) {
	s.lastCycleUnix.Store(at.Unix())
	s.lastOutcome.Store(outcome)
	s.lastSummary.Store(summary)
	s.cycles.Add(1)
	s.ready.Store(true)
}

func (s *State) LastCycle() time.Time {
	u := s.lastCycleUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) LastOutcome() string { return s.lastOutcome.Load().(string) }
func (s *State) LastSummary() string { return s.lastSummary.Load().(string) }
func (s *State) Cycles() int64       { return s.cycles.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
