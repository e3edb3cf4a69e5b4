package config

const (
	DefaultHost       = "192.168.1.1"
	DefaultPort       = 502
	DefaultUnitID     = 1
	DefaultTimeoutMs  = 5000
	DefaultIntervalS  = 60
	DefaultSource     = "signalk-teltonika-rutx11"
	DefaultContext    = "vessels.self"
	DefaultClientID   = "modem-telemetry"
	DefaultTopic      = "signalk/delta"
	DefaultStatus     = "signalk/status"
	DefaultTCPTimeout = 2000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Device
	if d.Host == "" {
		d.Host = DefaultHost
	}
	if d.Port == 0 {
		d.Port = DefaultPort
	}
	if d.UnitID == 0 {
		d.UnitID = DefaultUnitID
	}
	if d.TimeoutMs == 0 {
		d.TimeoutMs = DefaultTimeoutMs
	}
	if d.Profile == "" {
		d.Profile = ProfileFull
	}

	if cfg.Poll.IntervalS == 0 {
		cfg.Poll.IntervalS = DefaultIntervalS
	}

	o := &cfg.Output
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if o.Context == "" {
		o.Context = DefaultContext
	}
	if o.Log == nil {
		on := true
		o.Log = &on
	}
	if o.MQTT.Broker != "" {
		if o.MQTT.ClientID == "" {
			o.MQTT.ClientID = DefaultClientID
		}
		if o.MQTT.Topic == "" {
			o.MQTT.Topic = DefaultTopic
		}
		if o.MQTT.StatusTopic == "" {
			o.MQTT.StatusTopic = DefaultStatus
		}
	}
	if o.TCP.Endpoint != "" && o.TCP.TimeoutMs == 0 {
		o.TCP.TimeoutMs = DefaultTCPTimeout
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
