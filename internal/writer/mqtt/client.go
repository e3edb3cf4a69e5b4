package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/tamzrod/modem-telemetry/internal/status"
	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

// EndpointClient publishes deltas and status snapshots to one broker.
type EndpointClient struct {
	client      paho.Client
	topic       string
	statusTopic string
	qos         byte
	timeout     time.Duration
	log         zerolog.Logger
}

type Config struct {
	Broker      string
	ClientID    string
	Topic       string
	StatusTopic string
	Username    string
	Password    string
	QoS         byte
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// NewEndpointClient connects to the broker. The client reconnects on its
// own after a lost connection.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Broker == "" {
		return nil, errors.New("writer mqtt: broker required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	log := cfg.Logger.With().Str("component", "writer").Str("sink", "mqtt").Str("broker", cfg.Broker).Logger()

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetConnectTimeout(cfg.Timeout)
	opts.OnConnect = func(paho.Client) {
		log.Info().Msg("mqtt connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Warn().Err(err).Msg("mqtt connection lost")
	}

	client := paho.NewClient(opts)
	// With ConnectRetry the token completes only once connected; do not
	// block start-up on the broker.
	if tok := client.Connect(); tok.WaitTimeout(cfg.Timeout) && tok.Error() != nil {
		return nil, fmt.Errorf("writer mqtt: connect: %w", tok.Error())
	}

	return newEndpointClient(client, cfg, log), nil
}

func newEndpointClient(client paho.Client, cfg Config, log zerolog.Logger) *EndpointClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &EndpointClient{
		client:      client,
		topic:       cfg.Topic,
		statusTopic: cfg.StatusTopic,
		qos:         cfg.QoS,
		timeout:     cfg.Timeout,
		log:         log,
	}
}

func (c *EndpointClient) Name() string { return "mqtt" }

// Send publishes one delta as JSON on the delta topic.
func (c *EndpointClient) Send(d telemetry.Delta) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("writer mqtt: marshal: %w", err)
	}
	return c.publish(c.topic, false, b)
}

// WriteStatus publishes a retained status snapshot.
func (c *EndpointClient) WriteStatus(s status.Snapshot) error {
	if c.statusTopic == "" {
		return nil
	}
	b, err := status.Encode(s)
	if err != nil {
		return fmt.Errorf("writer mqtt: encode status: %w", err)
	}
	return c.publish(c.statusTopic, true, b)
}

func (c *EndpointClient) publish(topic string, retained bool, payload []byte) error {
	tok := c.client.Publish(topic, c.qos, retained, payload)
	if !tok.WaitTimeout(c.timeout) {
		return fmt.Errorf("writer mqtt: publish %s: timeout", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("writer mqtt: publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects, allowing in-flight publishes 250ms to finish.
func (c *EndpointClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	c.client.Disconnect(250)
	return nil
}
