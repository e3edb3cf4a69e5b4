package poller

import (
	"time"

	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

// ReadBlock describes one holding-register read geometry.
type ReadBlock struct {
	Address  uint16
	Quantity uint16
}

// BlockResult is the raw result of a single read.
type BlockResult struct {
	Step     string
	Address  uint16
	Quantity uint16
	Data     []byte
}

// PollResult is what one poll cycle produced.
// It is private to its cycle and discarded after delivery.
type PollResult struct {
	Source string
	Cycle  uint64
	At     time.Time // cycle start

	// Status is the success status set by the first step.
	// It is kept on failure; the reporter surfaces it before the error.
	Status string

	Values []telemetry.Value
	Blocks []BlockResult

	// FailedStep names the step that aborted the cycle.
	FailedStep string
	Err        error // non-nil means the poll cycle failed
}

// OK reports whether every step succeeded.
func (r PollResult) OK() bool { return r.Err == nil }
