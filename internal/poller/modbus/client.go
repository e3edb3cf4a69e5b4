package modbus

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"

	"github.com/tamzrod/modem-telemetry/internal/fault"
)

// Client implements poller.Reader using Modbus TCP.
// Every read opens a fresh session and closes it afterwards.
type Client struct {
	endpoint string
	unitID   uint8
	timeout  time.Duration
	log      zerolog.Logger
}

// Config is minimal transport config.
type Config struct {
	Host    string
	Port    int
	UnitID  uint8
	Timeout time.Duration
	Logger  zerolog.Logger
}

// New creates a reader. It does not connect.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("modbus client: host required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, errors.New("modbus client: port out of range")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	endpoint := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	return &Client{
		endpoint: endpoint,
		unitID:   cfg.UnitID,
		timeout:  cfg.Timeout,
		log:      cfg.Logger.With().Str("component", "reader").Str("endpoint", endpoint).Logger(),
	}, nil
}

// Endpoint is the host:port the client reads from.
func (c *Client) Endpoint() string { return c.endpoint }

type outcome struct {
	data []byte
	err  error
}

// ReadHoldingRegisters opens a session, sends one FC3 request and settles
// on whichever comes first: the response, a session fault, or ctx ending.
func (c *Client) ReadHoldingRegisters(ctx context.Context, addr, qty uint16) ([]byte, error) {
	h := modbus.NewTCPClientHandler(c.endpoint)
	h.Timeout = c.timeout
	h.SlaveId = c.unitID

	if err := h.Connect(); err != nil {
		return nil, fault.Connectionf(err, "connect %s", c.endpoint)
	}

	// buffered: the read goroutine must never block after we stop listening
	done := make(chan outcome, 1)
	go func() {
		defer h.Close()
		data, err := modbus.NewClient(h).ReadHoldingRegisters(addr, qty)
		done <- outcome{data: data, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			c.log.Debug().Uint16("address", addr).Uint16("quantity", qty).Err(o.err).Msg("read failed")
			return nil, classify(o.err, addr, qty)
		}
		c.log.Debug().Uint16("address", addr).Uint16("quantity", qty).Int("bytes", len(o.data)).Msg("read ok")
		return o.data, nil

	case <-ctx.Done():
		// The handler closes itself once the pending request returns.
		return nil, fault.Connectionf(ctx.Err(), "read %d/%d", addr, qty)
	}
}

// classify separates session faults from protocol rejections.
func classify(err error, addr, qty uint16) error {
	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return fault.Readf(err, "read %d/%d", addr, qty)
	}
	if isSessionFault(err) {
		return fault.Connectionf(err, "read %d/%d", addr, qty)
	}
	return fault.Readf(err, "read %d/%d", addr, qty)
}

func isSessionFault(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
