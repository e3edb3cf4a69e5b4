package writer

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/tamzrod/modem-telemetry/internal/config"
	"github.com/tamzrod/modem-telemetry/internal/poller"
	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

// ---- fake sink ----

type fakeSink struct {
	name string
	sent []telemetry.Delta
	err  error
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Send(d telemetry.Delta) error {
	f.sent = append(f.sent, d)
	return f.err
}

func newWriter(sinks ...Sink) *writerImpl {
	w := New(Plan{Source: "signalk-teltonika-rutx11", Context: "vessels.self"}, sinks).(*writerImpl)
	w.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }
	return w
}

// ---- tests ----

func TestWriter_OneUpdatePerBatch(t *testing.T) {
	sink := &fakeSink{name: "a"}
	w := newWriter(sink)

	res := poller.PollResult{Values: []telemetry.Value{
		{Path: telemetry.PathUptime, Value: uint32(12345)},
		{Path: telemetry.PathRSSI, Value: int32(-70)},
	}}
	require.NoError(t, w.Write(res))

	require.Len(t, sink.sent, 1)
	d := sink.sent[0]
	assert.Equal(t, "vessels.self", d.Context)
	require.Len(t, d.Updates, 1)
	assert.Equal(t, "signalk-teltonika-rutx11", d.Updates[0].Source.Label)
	assert.Equal(t, "2024-06-01T08:00:00.000Z", d.Updates[0].Timestamp)
	assert.Equal(t, res.Values, d.Updates[0].Values)
}

func TestWriter_FailedCycleEmitsNothing(t *testing.T) {
	sink := &fakeSink{name: "a"}
	w := newWriter(sink)

	require.NoError(t, w.Write(poller.PollResult{Err: errors.New("x"), Values: []telemetry.Value{{Path: "p", Value: 1}}}))
	require.NoError(t, w.Write(poller.PollResult{}))
	assert.Empty(t, sink.sent)
}

func TestWriter_Meta(t *testing.T) {
	sink := &fakeSink{name: "a"}
	require.NoError(t, newWriter(sink).WriteMeta())

	require.Len(t, sink.sent, 1)
	u := sink.sent[0].Updates[0]
	assert.Empty(t, u.Values)
	assert.Equal(t, []telemetry.Meta{{Path: telemetry.PathTemperature, Value: telemetry.Units{Units: "K"}}}, u.Meta)
}

func TestWriter_SinkErrorsDoNotStopFanout(t *testing.T) {
	bad := &fakeSink{name: "bad", err: errors.New("refused")}
	good := &fakeSink{name: "good"}
	w := newWriter(bad, good)

	err := w.Write(poller.PollResult{Values: []telemetry.Value{{Path: "p", Value: 1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink=bad")
	assert.Len(t, good.sent, 1)
}

func TestLogSink(t *testing.T) {
	s := NewLogSink(zerolog.Nop())
	assert.Equal(t, "log", s.Name())
	assert.NoError(t, s.Send(telemetry.Delta{Updates: []telemetry.Update{
		{Values: []telemetry.Value{{Path: "p", Value: 1}}},
		{Meta: telemetry.MetaUnits()},
	}}))
}

func TestBuildPlan(t *testing.T) {
	c := &cfg.Config{}
	_, err := BuildPlan(c)
	assert.Error(t, err)

	cfg.Normalize(c)
	p, err := BuildPlan(c)
	require.NoError(t, err)
	assert.Equal(t, Plan{Source: cfg.DefaultSource, Context: cfg.DefaultContext}, p)
}

func TestBuildEndpointClients(t *testing.T) {
	c := &cfg.Config{Output: cfg.OutputConfig{TCP: cfg.TCPConfig{Endpoint: "127.0.0.1:8375"}}}
	cfg.Normalize(c)

	sinks, status, closeAll, err := BuildEndpointClients(c, zerolog.Nop())
	require.NoError(t, err)
	defer closeAll()

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"log", "tcp"}, names)
	assert.Empty(t, status)
}
