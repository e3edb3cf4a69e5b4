package writer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tamzrod/modem-telemetry/internal/status"
)

// StatusSink is a delivery endpoint for status snapshots.
type StatusSink interface {
	Name() string
	WriteStatus(s status.Snapshot) error
}

// statusWriter forwards snapshots only when the visible status changes.
// After any delivery failure the next snapshot is re-asserted in full.
type statusWriter struct {
	mu    sync.Mutex
	sinks []StatusSink

	needFull bool
	last     status.Snapshot
}

// NewStatusWriter builds a status writer. With no sinks it reports
// disabled.
func NewStatusWriter(sinks []StatusSink) (status.Writer, bool) {
	if len(sinks) == 0 {
		return nil, false
	}
	return &statusWriter{sinks: sinks, needFull: true}, true
}

// WriteStatus implements status.Writer.
func (sw *statusWriter) WriteStatus(s status.Snapshot) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.needFull && sw.last.Same(s) {
		return nil
	}

	var errs []string
	for _, sink := range sw.sinks {
		if err := sink.WriteStatus(s); err != nil {
			errs = append(errs, fmt.Sprintf("status sink=%s err=%v", sink.Name(), err))
		}
	}
	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	sw.needFull = false
	sw.last = s
	return nil
}
