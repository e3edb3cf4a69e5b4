package poller

import (
	"time"

	"github.com/rs/zerolog"

	cfg "github.com/tamzrod/modem-telemetry/internal/config"
	pmodbus "github.com/tamzrod/modem-telemetry/internal/poller/modbus"
)

// Build constructs a Poller and wires the Modbus reader.
// The reader opens one session per read; there is nothing to close here.
func Build(c *cfg.Config, log zerolog.Logger) (*Poller, func() error, error) {
	reader, err := pmodbus.New(pmodbus.Config{
		Host:    c.Device.Host,
		Port:    c.Device.Port,
		UnitID:  c.Device.UnitID,
		Timeout: time.Duration(c.Device.TimeoutMs) * time.Millisecond,
		Logger:  log,
	})
	if err != nil {
		return nil, nil, err
	}

	profile, err := NewProfile(c.Device.Profile, c.Device.RUT240)
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			Source: c.Output.Source,
			Steps:  Steps(profile),
		},
		reader,
		log,
	)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("endpoint", reader.Endpoint()).Str("profile", profile.Name).
		Uint16("usage_bank", profile.UsageBank).Int("steps", len(p.Steps())).Msg("poller built")

	// No-op closer: sessions never outlive a read
	return p, func() error { return nil }, nil
}
