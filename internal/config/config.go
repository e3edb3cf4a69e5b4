package config

type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Poll    PollConfig    `yaml:"poll"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Profile selects the step sequence: "full" or "reduced".
	Profile string `yaml:"profile"`
	// RUT240 selects the alternate default usage bank.
	RUT240 bool `yaml:"rut240"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalS    int  `yaml:"interval_s"`
	SingleFlight bool `yaml:"single_flight"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Source  string     `yaml:"source"`
	Context string     `yaml:"context"`
	Log     *bool      `yaml:"log"`
	MQTT    MQTTConfig `yaml:"mqtt"`
	TCP     TCPConfig  `yaml:"tcp"`
}

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	Topic       string `yaml:"topic"`
	StatusTopic string `yaml:"status_topic"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	QoS         byte   `yaml:"qos"`
}

type TCPConfig struct {
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- AMBIENT ----

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}
