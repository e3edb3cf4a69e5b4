package writer

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/modem-telemetry/internal/config"
	wmqtt "github.com/tamzrod/modem-telemetry/internal/writer/mqtt"
	wtcp "github.com/tamzrod/modem-telemetry/internal/writer/tcp"
)

// BuildPlan converts the output config into a Writer Plan.
// Assumes config has already been validated and normalized.
func BuildPlan(c *cfg.Config) (Plan, error) {
	if c.Output.Source == "" {
		return Plan{}, errors.New("writer: output.source required")
	}
	return Plan{
		Source:  c.Output.Source,
		Context: c.Output.Context,
	}, nil
}

// BuildEndpointClients creates every configured sink.
// The mqtt client carries both deltas and status.
func BuildEndpointClients(c *cfg.Config, log zerolog.Logger) ([]Sink, []StatusSink, func() error, error) {
	var (
		sinks   []Sink
		status  []StatusSink
		closers []func() error
	)

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	if c.Output.Log == nil || *c.Output.Log {
		sinks = append(sinks, NewLogSink(log))
	}

	if m := c.Output.MQTT; m.Broker != "" {
		mc, err := wmqtt.NewEndpointClient(wmqtt.Config{
			Broker:      m.Broker,
			ClientID:    m.ClientID,
			Topic:       m.Topic,
			StatusTopic: m.StatusTopic,
			Username:    m.Username,
			Password:    m.Password,
			QoS:         m.QoS,
			Logger:      log,
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, nil, err
		}
		sinks = append(sinks, mc)
		status = append(status, mc)
		closers = append(closers, mc.Close)
	}

	if tc := c.Output.TCP; tc.Endpoint != "" {
		t, err := wtcp.NewEndpointClient(wtcp.Config{
			Endpoint: tc.Endpoint,
			Timeout:  time.Duration(tc.TimeoutMs) * time.Millisecond,
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, nil, err
		}
		sinks = append(sinks, t)
		closers = append(closers, t.Close)
	}

	return sinks, status, closeAll, nil
}
