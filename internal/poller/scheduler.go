package poller

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler fires a cycle immediately on Start, then every interval.
// The next timer is armed when a cycle starts, not when it ends, so cycles
// overlap when one outlasts the interval. SingleFlight skips a tick
// instead while the previous cycle is still running.
type Scheduler struct {
	// OnSkip, when set before Start, is called for every skipped tick.
	OnSkip func()

	cycle        func()
	singleFlight bool
	log          zerolog.Logger

	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	running  bool

	busy    atomic.Bool
	skipped atomic.Uint64
	wg      sync.WaitGroup
}

// NewScheduler wraps cycle. It does not start it.
func NewScheduler(cycle func(), singleFlight bool, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cycle:        cycle,
		singleFlight: singleFlight,
		log:          log.With().Str("component", "scheduler").Logger(),
	}
}

// Start runs one cycle now and arms the next one.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		return errors.New("scheduler: interval must be > 0")
	}
	if s.cycle == nil {
		return errors.New("scheduler: cycle required")
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("scheduler: already started")
	}
	s.running = true
	s.interval = interval
	s.mu.Unlock()

	s.log.Info().Dur("interval", interval).Bool("single_flight", s.singleFlight).Msg("scheduler started")
	s.fire()
	return nil
}

// Stop cancels the pending timer. A cycle already in flight keeps running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.log.Info().Msg("scheduler stopped")
}

// Wait blocks until every started cycle has returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

// Skipped counts ticks dropped by SingleFlight.
func (s *Scheduler) Skipped() uint64 { return s.skipped.Load() }

func (s *Scheduler) fire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.timer = time.AfterFunc(s.interval, s.fire)

	if s.singleFlight && !s.busy.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.log.Warn().Msg("previous cycle still running, tick skipped")
		if s.OnSkip != nil {
			s.OnSkip()
		}
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.singleFlight {
			defer s.busy.Store(false)
		}
		s.cycle()
	}()
}
