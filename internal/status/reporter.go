package status

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modem-telemetry/internal/fault"
	"github.com/tamzrod/modem-telemetry/internal/poller"
)

// Writer is the delivery-only contract for status.
type Writer interface {
	WriteStatus(s Snapshot) error
}

var _ poller.Reporter = (*Reporter)(nil)

// Reporter converts cycle outcomes into a single status per cycle.
// Cycles may overlap, so it serializes updates; the last settled cycle wins.
type Reporter struct {
	out Writer
	log zerolog.Logger
	now func() time.Time

	mu   sync.Mutex
	snap Snapshot
}

// NewReporter builds a reporter. out may be nil (log only).
func NewReporter(out Writer, log zerolog.Logger) *Reporter {
	return &Reporter{
		out: out,
		log: log.With().Str("component", "status").Logger(),
		now: time.Now,
	}
}

// Initializing reports the start-up status.
func (r *Reporter) Initializing() {
	r.set(func(Snapshot) []Snapshot {
		return []Snapshot{{Health: HealthUnknown, Message: MessageInitializing}}
	})
}

// Report implements poller.Reporter.
// A cycle that got past the status step but failed later first surfaces
// the status it decoded, then the error that replaced it.
func (r *Reporter) Report(res poller.PollResult) {
	r.set(func(prev Snapshot) []Snapshot {
		if res.Err == nil {
			return []Snapshot{{Health: HealthOK, Message: res.Status, Cycle: res.Cycle}}
		}
		failed := Snapshot{
			Health:            HealthError,
			Message:           fault.Message(res.Err),
			Kind:              fault.KindOf(res.Err).String(),
			Step:              res.FailedStep,
			Cycle:             res.Cycle,
			ConsecutiveErrors: prev.ConsecutiveErrors + 1,
		}
		if res.Status == "" {
			return []Snapshot{failed}
		}
		return []Snapshot{
			{Health: HealthOK, Message: res.Status, Cycle: res.Cycle, ConsecutiveErrors: prev.ConsecutiveErrors},
			failed,
		}
	})
}

// Current returns the last reported snapshot.
func (r *Reporter) Current() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// set computes the next snapshots under the lock and delivers them in order.
func (r *Reporter) set(next func(prev Snapshot) []Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range next(r.snap) {
		s.At = r.now()
		r.snap = s
		r.emit(s)
	}
}

func (r *Reporter) emit(s Snapshot) {
	if s.Health == HealthError {
		r.log.Warn().Str("kind", s.Kind).Str("step", s.Step).Uint64("cycle", s.Cycle).
			Uint32("consecutive_errors", s.ConsecutiveErrors).Msg(s.Message)
	} else {
		r.log.Info().Uint64("cycle", s.Cycle).Msg(s.Message)
	}

	if r.out == nil {
		return
	}
	if err := r.out.WriteStatus(s); err != nil {
		r.log.Warn().Err(err).Msg("status delivery failed")
	}
}
