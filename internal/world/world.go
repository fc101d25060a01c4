// Package world provides the in-memory world daylight detectors live in:
// block states, the day clock, the weather cycle, and the tick scheduler.
//
// A World is confined to a single simulation goroutine. The daemon's run
// loop owns it; other goroutines interact with it only through channels
// serviced by that loop.
package world

import (
	"github.com/rs/zerolog/log"

	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/skylight"
)

// TickHandler is invoked for each scheduled block tick that falls due.
type TickHandler func(pos BlockPos)

// Config describes a world at construction time.
type Config struct {
	// HasSkylight reports whether the dimension has sky exposure. Read
	// once at placement; detectors in a dimension without it never tick.
	HasSkylight bool
	// StartDayTime is the initial world-time counter value.
	StartDayTime int64
	// Weather enables the built-in rain/thunder cycle.
	Weather bool
	// WeatherSeed seeds the weather cycle.
	WeatherSeed int64
}

// World is the in-memory world state.
type World struct {
	states      map[BlockPos]logic.Properties
	dayTime     int64
	hasSkylight bool
	weatherOn   bool
	weather     *weatherCycle
	sched       *scheduler
	sinks       []Sink
	sky         skylight.Source
	handler     TickHandler
}

// New creates a World reading ambient sky light from the given source.
func New(cfg Config, sky skylight.Source) *World {
	return &World{
		states:      make(map[BlockPos]logic.Properties),
		dayTime:     cfg.StartDayTime,
		hasSkylight: cfg.HasSkylight,
		weatherOn:   cfg.Weather,
		weather:     newWeatherCycle(cfg.WeatherSeed, cfg.StartDayTime),
		sched:       &scheduler{},
		sky:         sky,
	}
}

// SetTickHandler registers the handler invoked for due block ticks.
func (w *World) SetTickHandler(h TickHandler) { w.handler = h }

// AddSink registers a sink for committed state changes.
func (w *World) AddSink(s Sink) { w.sinks = append(w.sinks, s) }

// HasSkylight reports the dimension's sky exposure property.
func (w *World) HasSkylight() bool { return w.hasSkylight }

// DayTime returns the current world-time counter.
func (w *World) DayTime() int64 { return w.dayTime }

// RainLevel returns the current rain intensity in [0,1].
func (w *World) RainLevel() float64 { return w.weather.rain }

// ThunderLevel returns the current thunder intensity in [0,1].
func (w *World) ThunderLevel() float64 { return w.weather.thunder }

// SetWeather pins rain and thunder levels. Intended for tests and for
// worlds running with the cycle disabled.
func (w *World) SetWeather(rain, thunder float64) {
	w.weather.set(rain, thunder)
}

// SkyLight returns the raw sky light at pos in [0,15]. Lookup failure
// degrades to 0 rather than propagating: the detector keeps operating with
// reduced accuracy.
func (w *World) SkyLight(pos BlockPos) int {
	level, err := w.sky.Level()
	if err != nil {
		log.Warn().Err(err).Stringer("pos", pos).Msg("sky light lookup failed, using 0")
		return 0
	}
	if level < 0 {
		return 0
	}
	if level > skylight.MaxLevel {
		return skylight.MaxLevel
	}
	return level
}

// PlaceDetector registers a detector block with the given initial state.
// Placement behaviour (tick scheduling) is the block's concern, not the
// world's.
func (w *World) PlaceDetector(pos BlockPos, props logic.Properties) {
	w.states[pos] = props
}

// RemoveDetector deletes the detector at pos. Any scheduled ticks for the
// position become no-ops when they fall due.
func (w *World) RemoveDetector(pos BlockPos) {
	delete(w.states, pos)
}

// BlockState returns the stored state at pos.
func (w *World) BlockState(pos BlockPos) (logic.Properties, bool) {
	props, ok := w.states[pos]
	return props, ok
}

// DetectorStates returns a copy of all stored detector states.
func (w *World) DetectorStates() map[BlockPos]logic.Properties {
	out := make(map[BlockPos]logic.Properties, len(w.states))
	for pos, props := range w.states {
		out[pos] = props
	}
	return out
}

// SetBlockState commits a state write and fans it out to the registered
// sinks. Writes to removed positions are dropped silently: the block went
// away mid-operation and the write is a no-op.
func (w *World) SetBlockState(pos BlockPos, props logic.Properties, notify NotifyStrength) {
	if _, ok := w.states[pos]; !ok {
		return
	}
	w.states[pos] = props

	log.Debug().
		Stringer("pos", pos).
		Int("power", int(props.Power)).
		Bool("inverted", props.Inverted).
		Stringer("notify", notify).
		Msg("block state written")

	change := Change{Pos: pos, Props: props, Notify: notify, DayTime: w.dayTime}
	for _, s := range w.sinks {
		s.OnChange(change)
	}
}

// ScheduleTick queues a block tick for pos after delay game ticks.
func (w *World) ScheduleTick(pos BlockPos, delay int64, prio TickPriority) {
	w.sched.schedule(pos, w.dayTime+delay, prio)
}

// PendingTicks returns the number of queued block ticks.
func (w *World) PendingTicks() int { return w.sched.pending() }

// Advance moves the world forward by n game ticks: the day clock and
// weather advance, then due block ticks run in (due, priority, order)
// sequence. Ticks for removed blocks are dropped.
func (w *World) Advance(n int) {
	for i := 0; i < n; i++ {
		w.dayTime++
		if w.weatherOn {
			w.weather.step(w.dayTime)
		}
		for {
			st := w.sched.popDue(w.dayTime)
			if st == nil {
				break
			}
			if _, ok := w.states[st.pos]; !ok {
				continue
			}
			if w.handler != nil {
				w.handler(st.pos)
			}
		}
	}
}
