package status

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modem-telemetry/internal/fault"
	"github.com/tamzrod/modem-telemetry/internal/poller"
)

type fakeWriter struct {
	mu  sync.Mutex
	got []Snapshot
	err error
}

func (f *fakeWriter) WriteStatus(s Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, s)
	return f.err
}

func newReporter(out Writer) *Reporter {
	r := NewReporter(out, zerolog.Nop())
	r.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }
	return r
}

func TestReporter_Initializing(t *testing.T) {
	w := &fakeWriter{}
	r := newReporter(w)
	r.Initializing()

	require.Len(t, w.got, 1)
	assert.Equal(t, HealthUnknown, w.got[0].Health)
	assert.Equal(t, MessageInitializing, w.got[0].Message)
}

func TestReporter_Success(t *testing.T) {
	w := &fakeWriter{}
	r := newReporter(w)
	r.Report(poller.PollResult{Cycle: 4, Status: "Connected to Elisa, signal strength -70dBm"})

	require.Len(t, w.got, 1)
	assert.Equal(t, HealthOK, w.got[0].Health)
	assert.Equal(t, "Connected to Elisa, signal strength -70dBm", w.got[0].Message)
	assert.Equal(t, uint64(4), w.got[0].Cycle)
}

func TestReporter_ErrorThenRecovery(t *testing.T) {
	w := &fakeWriter{}
	r := newReporter(w)

	failed := poller.PollResult{
		FailedStep: "usage",
		Err:        fault.WithStep(fault.Readf(errors.New("exception 2"), "read 300/4"), "usage"),
	}
	r.Report(failed)
	r.Report(failed)

	cur := r.Current()
	assert.Equal(t, HealthError, cur.Health)
	assert.Equal(t, "read 300/4: exception 2", cur.Message)
	assert.Equal(t, "read", cur.Kind)
	assert.Equal(t, "usage", cur.Step)
	assert.Equal(t, uint32(2), cur.ConsecutiveErrors)

	r.Report(poller.PollResult{Status: "ok"})
	assert.Equal(t, HealthOK, r.Current().Health)
	assert.Zero(t, r.Current().ConsecutiveErrors)
	assert.Len(t, w.got, 3)
}

func TestReporter_LaterStepFailureSurfacesStatusFirst(t *testing.T) {
	w := &fakeWriter{}
	r := newReporter(w)

	r.Report(poller.PollResult{
		Cycle:      7,
		Status:     "Connected to Elisa, signal strength -70dBm",
		FailedStep: "sim",
		Err:        fault.WithStep(fault.Connectionf(errors.New("connection reset"), "read 87/16"), "sim"),
	})

	require.Len(t, w.got, 2)
	assert.Equal(t, HealthOK, w.got[0].Health)
	assert.Equal(t, "Connected to Elisa, signal strength -70dBm", w.got[0].Message)
	assert.Equal(t, HealthError, w.got[1].Health)
	assert.Equal(t, "read 87/16: connection reset", w.got[1].Message)
	assert.Equal(t, "sim", w.got[1].Step)
	assert.Equal(t, uint32(1), w.got[1].ConsecutiveErrors)

	// the error is what stays current
	assert.Equal(t, w.got[1], r.Current())
}

func TestReporter_FirstStepFailureHasNoStatus(t *testing.T) {
	w := &fakeWriter{}
	r := newReporter(w)
	r.Report(poller.PollResult{
		FailedStep: "status",
		Err:        fault.WithStep(fault.Connectionf(errors.New("refused"), "dial"), "status"),
	})

	require.Len(t, w.got, 1)
	assert.Equal(t, HealthError, w.got[0].Health)
}

func TestReporter_EmptyErrorIsUnknown(t *testing.T) {
	r := newReporter(nil)
	r.Report(poller.PollResult{Err: errors.New("")})

	assert.Equal(t, fault.UnknownMessage, r.Current().Message)
	assert.Equal(t, "unknown", r.Current().Kind)
}

func TestReporter_DeliveryFailureIsSwallowed(t *testing.T) {
	r := newReporter(&fakeWriter{err: errors.New("broker down")})
	assert.NotPanics(t, func() { r.Report(poller.PollResult{Status: "ok"}) })
	assert.Equal(t, "ok", r.Current().Message)
}

func TestEncode(t *testing.T) {
	b, err := Encode(Snapshot{Health: HealthError, Message: "x", Kind: "read", At: time.Unix(0, 0).UTC()})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, float64(HealthError), m["health"])
	assert.Equal(t, "x", m["message"])
	assert.Equal(t, "read", m["kind"])
}

func TestSnapshot_Same(t *testing.T) {
	a := Snapshot{Health: HealthOK, Message: "m", Cycle: 1, At: time.Unix(1, 0)}
	b := Snapshot{Health: HealthOK, Message: "m", Cycle: 2, At: time.Unix(2, 0)}
	assert.True(t, a.Same(b))
	b.Message = "n"
	assert.False(t, a.Same(b))
}
