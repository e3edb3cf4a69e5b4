package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ProfileFull    = "full"
	ProfileReduced = "reduced"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values that Normalize fills in are accepted.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}

	// ------------------------------------------------------------
	// DEVICE
	// ------------------------------------------------------------

	d := cfg.Device
	if strings.TrimSpace(d.Host) == "" && d.Host != "" {
		return errors.New("device.host must not be blank")
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("device.port %d out of range 1..65535", d.Port)
	}
	if d.TimeoutMs < 0 {
		return fmt.Errorf("device.timeout_ms must be >= 0, got %d", d.TimeoutMs)
	}
	switch d.Profile {
	case "", ProfileFull, ProfileReduced:
	default:
		return fmt.Errorf("device.profile %q: expected %q or %q", d.Profile, ProfileFull, ProfileReduced)
	}

	// ------------------------------------------------------------
	// POLL
	// ------------------------------------------------------------

	if cfg.Poll.IntervalS < 0 {
		return fmt.Errorf("poll.interval_s must be > 0, got %d", cfg.Poll.IntervalS)
	}

	// ------------------------------------------------------------
	// OUTPUT
	// ------------------------------------------------------------

	for i := 0; i < len(cfg.Output.Source); i++ {
		if cfg.Output.Source[i] > 0x7F {
			return errors.New("output.source must contain ASCII characters only")
		}
	}
	if cfg.Output.MQTT.QoS > 2 {
		return fmt.Errorf("output.mqtt.qos %d out of range 0..2", cfg.Output.MQTT.QoS)
	}
	if cfg.Output.MQTT.Broker != "" && !strings.Contains(cfg.Output.MQTT.Broker, "://") {
		return fmt.Errorf("output.mqtt.broker %q: expected scheme://host:port", cfg.Output.MQTT.Broker)
	}
	if cfg.Output.TCP.TimeoutMs < 0 {
		return fmt.Errorf("output.tcp.timeout_ms must be >= 0, got %d", cfg.Output.TCP.TimeoutMs)
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch strings.ToLower(cfg.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: expected debug, info, warn or error", cfg.Log.Level)
	}

	return nil
}
