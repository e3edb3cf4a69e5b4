package writer

import (
	"github.com/tamzrod/modem-telemetry/internal/poller"
	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

// Plan is the fully-built delivery plan.
type Plan struct {
	Source  string // label stamped on every update
	Context string // delta context, e.g. vessels.self
}

// Sink is one downstream delivery endpoint.
// Delivery is fire-and-forget from the poller's point of view.
type Sink interface {
	Name() string
	Send(d telemetry.Delta) error
}

// Writer publishes poll results and the one-time meta announcement.
type Writer interface {
	Write(res poller.PollResult) error
	WriteMeta() error
}
