// Package logic contains the pure daylight evaluation model.
// This package has NO external dependencies (no world, MQTT, OS, or clocks).
// All inputs arrive as plain values, so everything here is deterministic
// and unit-testable in isolation.
package logic

// TicksPerDay is the length of one full day/night cycle in game ticks.
const TicksPerDay = 24000

// MaxPower is the strongest redstone signal a detector can emit.
const MaxPower = 15

// MaxDarken is the largest time/weather subtraction from raw sky light.
const MaxDarken = 11

// PowerLevel is a discrete redstone signal strength in [0,15].
type PowerLevel int

// Properties is the persisted state of a single detector: its operating
// mode plus the power level it currently emits.
type Properties struct {
	Inverted bool
	Power    PowerLevel
}

// StateCount is the number of distinct encodable detector states.
const StateCount = 32

// Index encodes the property bundle into a storage index in [0,32).
// Layout: bit 4 holds inverted, bits 0-3 hold power.
func (p Properties) Index() int {
	idx := int(p.Power)
	if p.Inverted {
		idx |= 1 << 4
	}
	return idx
}

// FromIndex decodes a storage index produced by Index. The second return
// value is false if idx is outside the encodable range.
func FromIndex(idx int) (Properties, bool) {
	if idx < 0 || idx >= StateCount {
		return Properties{}, false
	}
	return Properties{
		Inverted: idx&(1<<4) != 0,
		Power:    PowerLevel(idx & 0xf),
	}, true
}

// Snapshot is a point-in-time view of the environment. It is read fresh for
// every evaluation and never cached across ticks.
type Snapshot struct {
	// SkyLight is the raw sky light at the detector position, in [0,15].
	SkyLight int
	// Rain is the current rain intensity in [0,1].
	Rain float64
	// Thunder is the current thunder intensity in [0,1].
	Thunder float64
	// DayTime is the monotonically increasing world-time counter. One day
	// is TicksPerDay units.
	DayTime int64
}
