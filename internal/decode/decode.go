// Package decode maps raw holding-register buffers to typed values.
//
// Windows are given in 16-bit register units and are taken literally:
// a 32-bit field may be read from a wider window, in which case only the
// leading four bytes matter.
package decode

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/tamzrod/modem-telemetry/internal/fault"
	"github.com/tamzrod/modem-telemetry/internal/telemetry"
)

// ToEnd marks a window that runs to the end of the buffer.
const ToEnd = -1

// Window returns the bytes of registers [from, to) of data.
// to == ToEnd selects everything from `from` onward.
func Window(data []byte, from, to int) ([]byte, error) {
	start := 2 * from
	if from < 0 || start > len(data) {
		return nil, fault.Decodef("decode: window %d..%d outside %d-byte buffer", from, to, len(data))
	}
	if to == ToEnd {
		return data[start:], nil
	}
	end := 2 * to
	if to < from || end > len(data) {
		return nil, fault.Decodef("decode: window %d..%d outside %d-byte buffer", from, to, len(data))
	}
	return data[start:end], nil
}

func u32be(data []byte, from, to int) (uint32, error) {
	w, err := Window(data, from, to)
	if err != nil {
		return 0, err
	}
	if len(w) < 4 {
		return 0, fault.Decodef("decode: need 4 bytes, window %d..%d has %d", from, to, len(w))
	}
	return binary.BigEndian.Uint32(w[:4]), nil
}

func f32le(data []byte, from, to int) (float32, error) {
	w, err := Window(data, from, to)
	if err != nil {
		return 0, err
	}
	if len(w) < 4 {
		return 0, fault.Decodef("decode: need 4 bytes, window %d..%d has %d", from, to, len(w))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(w[:4])), nil
}

// ---- status block (1,38) ----

// Uptime is the modem uptime in seconds: registers 0..2, uint32 BE.
func Uptime(data []byte) (uint32, error) {
	return u32be(data, 0, 2)
}

// RSSI is the signal strength in dBm: registers 2..5, int32 BE.
func RSSI(data []byte) (int32, error) {
	v, err := u32be(data, 2, 5)
	return int32(v), err
}

// Temperature is the modem temperature in Kelvin.
// Registers 4..7 hold tenths of a degree Celsius as int32 BE.
func Temperature(data []byte) (float64, error) {
	v, err := u32be(data, 4, 7)
	if err != nil {
		return 0, err
	}
	return float64(int32(v))/10 + 273.15, nil
}

// Operator is the registered network name: register 22 to the end.
func Operator(data []byte) (string, error) {
	w, err := Window(data, 22, ToEnd)
	if err != nil {
		return "", err
	}
	return Text(w), nil
}

// Bars maps RSSI to a 0..5 signal bar count.
func Bars(rssi int32) int {
	b := math.Floor((float64(rssi) + 100) / 8)
	return int(clamp(b, 0, 5))
}

// RadioQuality maps RSSI to a 0..1 ratio.
func RadioQuality(rssi int32) float64 {
	return clamp((float64(rssi)+100)/8, 0, 5) / 5
}

// ---- text blocks (119,16) (87,16) ----

// Text returns b up to, not including, the first NUL byte.
func Text(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// ConnectionText is the connection type: first 15 registers.
func ConnectionText(data []byte) (string, error) {
	w, err := Window(data, 0, 15)
	if err != nil {
		return "", err
	}
	return Text(w), nil
}

// ActiveSIM is the active SIM label: first 15 registers.
func ActiveSIM(data []byte) (string, error) {
	w, err := Window(data, 0, 15)
	if err != nil {
		return "", err
	}
	return Text(w), nil
}

// IsSIM2 reports whether the SIM label selects slot 2.
func IsSIM2(label string) bool {
	return len(label) >= 4 && label[:4] == "sim2"
}

// ---- usage bank (4 registers) ----

// Usage returns the received and transmitted byte counters.
// The rx pair comes first in the bank.
func Usage(data []byte) (rx, tx uint32, err error) {
	if rx, err = u32be(data, 0, 2); err != nil {
		return 0, 0, err
	}
	if tx, err = u32be(data, 2, 4); err != nil {
		return 0, 0, err
	}
	return rx, tx, nil
}

// ---- navigation (143,4) (179,4) ----

// Position decodes latitude and longitude.
// Both are float32 LITTLE-endian, unlike every other field.
func Position(data []byte) (telemetry.Position, error) {
	lat, err := f32le(data, 0, 2)
	if err != nil {
		return telemetry.Position{}, err
	}
	lon, err := f32le(data, 2, 4)
	if err != nil {
		return telemetry.Position{}, err
	}
	return telemetry.Position{Latitude: float64(lat), Longitude: float64(lon)}, nil
}

// Speed is the speed over ground: registers 0..2, int32 BE.
func Speed(data []byte) (int32, error) {
	v, err := u32be(data, 0, 2)
	return int32(v), err
}

// Satellites is the satellites-in-use count: registers 2..4, uint32 BE.
func Satellites(data []byte) (uint32, error) {
	return u32be(data, 2, 4)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
