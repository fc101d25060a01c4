// Package status provides a thread-safe status tracker for the
// daylight-sensor daemon. It is fed from the simulation loop and read by
// HTTP handlers.
package status

import (
	"sort"
	"sync"
	"time"

	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/world"
)

// Config contains daemon configuration for display.
type Config struct {
	TickRateHz     int
	Broker         string
	HTTPAddr       string
	DBPath         string
	HeartbeatMs    int64
	SkylightSource string
	Weather        bool
}

// DetectorStatus is the displayed state of one detector.
type DetectorStatus struct {
	Pos      world.BlockPos
	Inverted bool
	Power    logic.PowerLevel
}

// Counts tracks committed writes since startup, split by notify strength.
type Counts struct {
	PowerWrites int // full-propagation power changes
	ModeFlips   int // listeners-only inverted toggles
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Detectors     []DetectorStatus // sorted by position
	DayTime       int64
	Rain          float64
	Thunder       float64
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	InstanceID    string
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu        sync.RWMutex
	detectors map[world.BlockPos]logic.Properties
	snap      Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config, instanceID string) *Tracker {
	return &Tracker{
		detectors: make(map[world.BlockPos]logic.Properties),
		snap: Snapshot{
			StartTime:  startTime,
			InstanceID: instanceID,
			Config:     cfg,
		},
	}
}

// OnChange applies a committed state change. Tracker implements world.Sink
// so it can be registered directly on the world.
func (t *Tracker) OnChange(c world.Change) {
	t.mu.Lock()
	t.detectors[c.Pos] = c.Props
	switch c.Notify {
	case world.NotifyAll:
		t.snap.Counts.PowerWrites++
	case world.NotifyListeners:
		t.snap.Counts.ModeFlips++
	}
	t.mu.Unlock()
}

// SetDetector records a detector's state without counting it as a write.
// Used for initial placements.
func (t *Tracker) SetDetector(pos world.BlockPos, props logic.Properties) {
	t.mu.Lock()
	t.detectors[pos] = props
	t.mu.Unlock()
}

// RemoveDetector drops a detector from the display.
func (t *Tracker) RemoveDetector(pos world.BlockPos) {
	t.mu.Lock()
	delete(t.detectors, pos)
	t.mu.Unlock()
}

// SetWorld records the current clock and weather levels.
// Called from the run loop on every tick.
func (t *Tracker) SetWorld(dayTime int64, rain, thunder float64) {
	t.mu.Lock()
	t.snap.DayTime = dayTime
	t.snap.Rain = rain
	t.snap.Thunder = thunder
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Detectors = make([]DetectorStatus, 0, len(t.detectors))
	for pos, props := range t.detectors {
		s.Detectors = append(s.Detectors, DetectorStatus{
			Pos:      pos,
			Inverted: props.Inverted,
			Power:    props.Power,
		})
	}
	t.mu.RUnlock()

	sort.Slice(s.Detectors, func(i, j int) bool {
		a, b := s.Detectors[i].Pos, s.Detectors[j].Pos
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})

	s.Now = time.Now()
	return s
}
