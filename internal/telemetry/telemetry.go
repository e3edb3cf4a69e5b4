// Package telemetry holds the named measurements produced by a poll cycle
// and the delta envelope they are published in.
package telemetry

import "time"

// Output paths. Stable across cycles.
const (
	PathUptime          = "networking.modem.uptime"
	PathRSSI            = "networking.lte.rssi"
	PathBars            = "networking.lte.bars"
	PathRadioQuality    = "networking.lte.radioQuality"
	PathTemperature     = "networking.modem.temperature"
	PathOperator        = "networking.lte.registerNetworkDisplay"
	PathConnectionText  = "networking.lte.connectionText"
	PathUsageTx         = "networking.lte.usage.tx"
	PathUsageRx         = "networking.lte.usage.rx"
	PathPosition        = "navigation.position"
	PathSpeedOverGround = "navigation.speedOverGround"
	PathSatellites      = "navigation.gnss.satellites"
)

// Value is a single decoded, named measurement.
// Value holds a number, a string or a Position.
type Value struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Position is a GNSS fix in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ---- delta envelope ----

// Source labels who produced an update.
type Source struct {
	Label string `json:"label"`
}

// Meta declares metadata for a path.
type Meta struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// Units is the meta value announcing a path's unit.
type Units struct {
	Units string `json:"units"`
}

// Update is one timestamped batch inside a delta.
type Update struct {
	Source    *Source `json:"source,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	Values    []Value `json:"values,omitempty"`
	Meta      []Meta  `json:"meta,omitempty"`
}

// Delta is the unit handed to a sink.
type Delta struct {
	Context string   `json:"context"`
	Updates []Update `json:"updates"`
}

// Timestamp formats t as ISO-8601 UTC with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// MetaUnits lists the unit declarations announced once at start.
func MetaUnits() []Meta {
	return []Meta{
		{Path: PathTemperature, Value: Units{Units: "K"}},
	}
}
