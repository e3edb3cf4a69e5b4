package tcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

// EndpointClient sends newline-delimited delta JSON to a TCP listener.
// Stateless: 1 delta = 1 connection.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer tcp: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
	}, nil
}

func (c *EndpointClient) Name() string { return "tcp" }

func (c *EndpointClient) Close() error { return nil }

// Send implements writer.Sink.
func (c *EndpointClient) Send(d telemetry.Delta) error {
	line, err := encodeLine(d)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("writer tcp: dial: %w", err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := writeAll(conn, line); err != nil {
		return fmt.Errorf("writer tcp: write: %w", err)
	}
	return nil
}

// encodeLine renders one delta as a single JSON line.
func encodeLine(d telemetry.Delta) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("writer tcp: marshal: %w", err)
	}
	return append(b, '\n'), nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
