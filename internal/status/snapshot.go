package status

import "time"

// Snapshot is exactly what status delivery is allowed to publish.
// It holds the current state only.
type Snapshot struct {
	Health  uint16    `json:"health"`
	Message string    `json:"message"`
	Kind    string    `json:"kind,omitempty"`
	Step    string    `json:"step,omitempty"`
	Cycle   uint64    `json:"cycle,omitempty"`
	At      time.Time `json:"at"`

	// ConsecutiveErrors resets on the first successful cycle.
	ConsecutiveErrors uint32 `json:"consecutive_errors"`
}

// Same reports whether two snapshots carry the same visible status.
// Cycle and timestamp are ignored.
func (s Snapshot) Same(o Snapshot) bool {
	return s.Health == o.Health && s.Message == o.Message && s.Kind == o.Kind && s.Step == o.Step
}
