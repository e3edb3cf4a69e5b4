package poller

import (
	"fmt"

	"github.com/tamzrod/modem-telemetry/internal/decode"
	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

// Step is one read of the chain.
// Resolve, when set, derives the geometry from earlier steps of the same
// cycle and overrides Block.
type Step struct {
	Name    string
	Block   ReadBlock
	Resolve func(c *Cycle) ReadBlock
	Decode  func(c *Cycle, data []byte) error
}

func (s Step) block(c *Cycle) ReadBlock {
	if s.Resolve != nil {
		return s.Resolve(c)
	}
	return s.Block
}

// Cycle accumulates what the steps of one cycle decoded.
type Cycle struct {
	Values    []telemetry.Value
	Status    string
	ActiveSIM string
}

// Emit appends a named value.
func (c *Cycle) Emit(path string, v any) {
	c.Values = append(c.Values, telemetry.Value{Path: path, Value: v})
}

// ---- profiles ----

// Usage bank addresses.
const (
	UsageBankDefault uint16 = 185
	UsageBankRUT240  uint16 = 135
	UsageBankSIM2    uint16 = 300
)

// Profile selects register-map variants for a device model.
type Profile struct {
	Name          string
	UsageBank     uint16
	SIM2UsageBank uint16
	// Navigation enables the GNSS position and speed steps.
	Navigation bool
}

// NewProfile maps a profile name ("full" or "reduced") to its register map.
func NewProfile(name string, rut240 bool) (Profile, error) {
	p := Profile{Name: name, UsageBank: UsageBankDefault, SIM2UsageBank: UsageBankSIM2}
	if rut240 {
		p.UsageBank = UsageBankRUT240
	}
	switch name {
	case "full":
		p.Navigation = true
	case "reduced":
	default:
		return Profile{}, fmt.Errorf("poller: unknown profile %q", name)
	}
	return p, nil
}

// UsageBankFor picks the usage-counter bank for the SIM decoded earlier in
// the cycle.
func (p Profile) UsageBankFor(activeSIM string) uint16 {
	if decode.IsSIM2(activeSIM) {
		return p.SIM2UsageBank
	}
	return p.UsageBank
}

// ---- step chain ----

// Step names.
const (
	StepStatus     = "status"
	StepConnection = "connection"
	StepSIM        = "sim"
	StepUsage      = "usage"
	StepPosition   = "position"
	StepSpeed      = "speed"
)

// Steps returns the ordered chain for a profile.
func Steps(p Profile) []Step {
	steps := []Step{
		{Name: StepStatus, Block: ReadBlock{Address: 1, Quantity: 38}, Decode: decodeStatus},
		{Name: StepConnection, Block: ReadBlock{Address: 119, Quantity: 16}, Decode: decodeConnection},
		{Name: StepSIM, Block: ReadBlock{Address: 87, Quantity: 16}, Decode: decodeSIM},
		{
			Name: StepUsage,
			Resolve: func(c *Cycle) ReadBlock {
				return ReadBlock{Address: p.UsageBankFor(c.ActiveSIM), Quantity: 4}
			},
			Decode: decodeUsage,
		},
	}
	if !p.Navigation {
		return steps
	}
	return append(steps,
		Step{Name: StepPosition, Block: ReadBlock{Address: 143, Quantity: 4}, Decode: decodePosition},
		Step{Name: StepSpeed, Block: ReadBlock{Address: 179, Quantity: 4}, Decode: decodeSpeed},
	)
}

func decodeStatus(c *Cycle, data []byte) error {
	uptime, err := decode.Uptime(data)
	if err != nil {
		return err
	}
	rssi, err := decode.RSSI(data)
	if err != nil {
		return err
	}
	temp, err := decode.Temperature(data)
	if err != nil {
		return err
	}
	operator, err := decode.Operator(data)
	if err != nil {
		return err
	}

	c.Emit(telemetry.PathUptime, uptime)
	c.Emit(telemetry.PathRSSI, rssi)
	c.Emit(telemetry.PathBars, decode.Bars(rssi))
	c.Emit(telemetry.PathRadioQuality, decode.RadioQuality(rssi))
	c.Emit(telemetry.PathTemperature, temp)
	c.Emit(telemetry.PathOperator, operator)
	c.Status = fmt.Sprintf("Connected to %s, signal strength %ddBm", operator, rssi)
	return nil
}

func decodeConnection(c *Cycle, data []byte) error {
	txt, err := decode.ConnectionText(data)
	if err != nil {
		return err
	}
	c.Emit(telemetry.PathConnectionText, txt)
	return nil
}

func decodeSIM(c *Cycle, data []byte) error {
	sim, err := decode.ActiveSIM(data)
	if err != nil {
		return err
	}
	c.ActiveSIM = sim
	return nil
}

func decodeUsage(c *Cycle, data []byte) error {
	rx, tx, err := decode.Usage(data)
	if err != nil {
		return err
	}
	c.Emit(telemetry.PathUsageTx, tx)
	c.Emit(telemetry.PathUsageRx, rx)
	return nil
}

func decodePosition(c *Cycle, data []byte) error {
	pos, err := decode.Position(data)
	if err != nil {
		return err
	}
	c.Emit(telemetry.PathPosition, pos)
	return nil
}

func decodeSpeed(c *Cycle, data []byte) error {
	speed, err := decode.Speed(data)
	if err != nil {
		return err
	}
	sats, err := decode.Satellites(data)
	if err != nil {
		return err
	}
	c.Emit(telemetry.PathSpeedOverGround, speed)
	c.Emit(telemetry.PathSatellites, sats)
	return nil
}
