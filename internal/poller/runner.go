package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modem-telemetry/internal/fault"
)

// Publisher delivers the values of a successful cycle.
type Publisher interface {
	Write(res PollResult) error
}

// Reporter turns a cycle outcome into host status.
type Reporter interface {
	Report(res PollResult)
}

// Observer is notified around every cycle.
type Observer interface {
	CycleStarted()
	CycleFinished(res PollResult, took time.Duration)
	// CycleSkipped is called for every tick dropped by single-flight.
	CycleSkipped()
}

// Runner glues one cycle: poll, publish, report.
// Nothing that happens inside a cycle escapes it.
type Runner struct {
	poller *Poller
	pub    Publisher
	rep    Reporter
	obs    Observer
	log    zerolog.Logger
}

// NewRunner builds a runner. obs may be nil.
func NewRunner(p *Poller, pub Publisher, rep Reporter, obs Observer, log zerolog.Logger) *Runner {
	return &Runner{
		poller: p,
		pub:    pub,
		rep:    rep,
		obs:    obs,
		log:    log.With().Str("component", "runner").Logger(),
	}
}

// Cycle performs one isolated poll cycle.
func (r *Runner) Cycle(ctx context.Context) {
	start := time.Now()
	res := r.poll(ctx)
	r.finish(res, start)
}

// poll runs the chain and publishes on success.
// A panic becomes an Unknown fault of this cycle.
func (r *Runner) poll(ctx context.Context) (res PollResult) {
	defer func() {
		if v := recover(); v != nil {
			res.Values = nil
			res.Err = &fault.Error{Kind: fault.Unknown, Step: res.FailedStep, Err: fmt.Errorf("panic: %v", v)}
			r.log.Error().Interface("panic", v).Msg("cycle panicked")
		}
	}()

	if r.obs != nil {
		r.obs.CycleStarted()
	}

	res = r.poller.PollOnce(ctx)

	if res.Err == nil {
		if err := r.pub.Write(res); err != nil {
			// delivery is fire-and-forget; the cycle itself succeeded
			r.log.Warn().Uint64("cycle", res.Cycle).Err(err).Msg("publish failed")
		}
	} else {
		r.log.Warn().Uint64("cycle", res.Cycle).Str("step", res.FailedStep).
			Str("kind", fault.KindOf(res.Err).String()).Err(res.Err).Msg("cycle failed")
	}
	return res
}

// finish reports exactly once, then notifies the observer.
func (r *Runner) finish(res PollResult, start time.Time) {
	r.guard(res.Cycle, "report", func() { r.rep.Report(res) })
	if r.obs != nil {
		r.guard(res.Cycle, "observe", func() { r.obs.CycleFinished(res, time.Since(start)) })
	}
}

func (r *Runner) guard(cycle uint64, what string, fn func()) {
	defer func() {
		if v := recover(); v != nil {
			r.log.Error().Uint64("cycle", cycle).Str("stage", what).Interface("panic", v).Msg("cycle panicked")
		}
	}()
	fn()
}

// Run schedules cycles until ctx ends, then waits for in-flight cycles.
// Ending ctx only cancels the pending tick; cycles already started run to
// completion.
func (r *Runner) Run(ctx context.Context, interval time.Duration, singleFlight bool) error {
	cycleCtx := context.WithoutCancel(ctx)

	s := NewScheduler(func() { r.Cycle(cycleCtx) }, singleFlight, r.log)
	if r.obs != nil {
		s.OnSkip = r.obs.CycleSkipped
	}
	if err := s.Start(interval); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	s.Wait()
	return nil
}
