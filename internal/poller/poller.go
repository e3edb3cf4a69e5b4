package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modem-telemetry/internal/fault"
)

// Reader abstracts one holding-register read.
// Implementations own their session lifecycle.
type Reader interface {
	ReadHoldingRegisters(ctx context.Context, addr, qty uint16) ([]byte, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Source string
	Steps  []Step
}

// Poller runs the ordered step chain against one device.
type Poller struct {
	cfg    Config
	reader Reader
	log    zerolog.Logger
	seq    atomic.Uint64
}

// New creates a poller with immutable config.
func New(cfg Config, reader Reader, log zerolog.Logger) (*Poller, error) {
	if cfg.Source == "" {
		return nil, errors.New("poller: source required")
	}
	if len(cfg.Steps) == 0 {
		return nil, errors.New("poller: at least one step required")
	}
	if reader == nil {
		return nil, errors.New("poller: reader required")
	}
	for _, s := range cfg.Steps {
		if s.Name == "" || s.Decode == nil {
			return nil, errors.New("poller: every step needs a name and a decoder")
		}
	}
	return &Poller{
		cfg:    cfg,
		reader: reader,
		log:    log.With().Str("component", "poller").Logger(),
	}, nil
}

// Steps returns the configured step chain.
func (p *Poller) Steps() []Step { return p.cfg.Steps }

// PollOnce performs exactly one poll cycle.
// Steps run strictly in order; any failure aborts the rest of the cycle
// and no values are kept.
func (p *Poller) PollOnce(ctx context.Context) PollResult {
	res := PollResult{
		Source: p.cfg.Source,
		Cycle:  p.seq.Add(1),
		At:     time.Now(),
	}
	log := p.log.With().Uint64("cycle", res.Cycle).Logger()

	var c Cycle

	for _, step := range p.cfg.Steps {
		rb := step.block(&c)

		data, err := p.reader.ReadHoldingRegisters(ctx, rb.Address, rb.Quantity)
		if err == nil {
			res.Blocks = append(res.Blocks, BlockResult{
				Step: step.Name, Address: rb.Address, Quantity: rb.Quantity, Data: data,
			})
			err = step.Decode(&c, data)
		}
		if err != nil {
			res.Status = c.Status
			res.FailedStep = step.Name
			res.Err = fault.WithStep(err, step.Name)
			log.Debug().Str("step", step.Name).Uint16("address", rb.Address).Uint16("quantity", rb.Quantity).
				Str("kind", fault.KindOf(err).String()).Err(err).Msg("step failed")
			return res
		}
		log.Debug().Str("step", step.Name).Uint16("address", rb.Address).Uint16("quantity", rb.Quantity).Msg("step ok")
	}

	// Commit only if all steps succeeded
	res.Status = c.Status
	res.Values = c.Values
	return res
}
