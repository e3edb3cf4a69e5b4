package writer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modem-telemetry/internal/poller"
	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

type writerImpl struct {
	plan  Plan
	sinks []Sink
	now   func() time.Time
}

func New(plan Plan, sinks []Sink) Writer {
	return &writerImpl{
		plan:  plan,
		sinks: sinks,
		now:   time.Now,
	}
}

// Write emits the values of one cycle as a single update.
// The timestamp is taken at emission, once per batch.
func (w *writerImpl) Write(res poller.PollResult) error {
	if res.Err != nil || len(res.Values) == 0 {
		return nil
	}

	d := telemetry.Delta{
		Context: w.plan.Context,
		Updates: []telemetry.Update{{
			Source:    &telemetry.Source{Label: w.plan.Source},
			Timestamp: telemetry.Timestamp(w.now()),
			Values:    res.Values,
		}},
	}
	return w.fanout(d)
}

// WriteMeta announces path units. Called once, independent of cycles.
func (w *writerImpl) WriteMeta() error {
	d := telemetry.Delta{
		Context: w.plan.Context,
		Updates: []telemetry.Update{{Meta: telemetry.MetaUnits()}},
	}
	return w.fanout(d)
}

func (w *writerImpl) fanout(d telemetry.Delta) error {
	var errs []string
	for _, s := range w.sinks {
		if err := s.Send(d); err != nil {
			errs = append(errs, fmt.Sprintf("writer: sink=%s err=%v", s.Name(), err))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}

// ---- log sink ----

type logSink struct {
	log zerolog.Logger
}

// NewLogSink logs every delta it receives.
func NewLogSink(log zerolog.Logger) Sink {
	return &logSink{log: log.With().Str("component", "writer").Str("sink", "log").Logger()}
}

func (l *logSink) Name() string { return "log" }

func (l *logSink) Send(d telemetry.Delta) error {
	for _, u := range d.Updates {
		if len(u.Meta) > 0 {
			ev := l.log.Info().Str("context", d.Context)
			for _, m := range u.Meta {
				ev = ev.Interface(m.Path, m.Value)
			}
			ev.Msg("meta")
			continue
		}
		dict := zerolog.Dict()
		for _, v := range u.Values {
			dict = dict.Interface(v.Path, v.Value)
		}
		l.log.Info().Str("context", d.Context).Str("timestamp", u.Timestamp).Dict("values", dict).Msg("delta")
	}
	return nil
}
