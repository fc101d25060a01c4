package world

import "math/rand"

// Weather episode bounds, in game ticks.
const (
	minClearTicks   = 12000
	clearTicksSpan  = 24000
	minRainTicks    = 12000
	rainTicksSpan   = 12000
	minCalmTicks    = 12000
	calmTicksSpan   = 12000
	minThunderTicks = 3600
	thunderSpan     = 12000
)

// rampPerTick is how fast rain/thunder intensity moves toward its target.
const rampPerTick = 0.01

// weatherCycle drives rain and thunder intensity through seeded episodes.
// Levels ramp linearly toward 0 or 1 so detectors see gradual attenuation
// rather than step changes. Not safe for concurrent use.
type weatherCycle struct {
	rng *rand.Rand

	rain          float64
	thunder       float64
	rainTarget    float64
	thunderTarget float64

	nextRainFlip    int64
	nextThunderFlip int64
}

func newWeatherCycle(seed int64, startTick int64) *weatherCycle {
	w := &weatherCycle{rng: rand.New(rand.NewSource(seed))}
	w.nextRainFlip = startTick + minClearTicks + w.rng.Int63n(clearTicksSpan)
	w.nextThunderFlip = startTick + minCalmTicks + w.rng.Int63n(calmTicksSpan)
	return w
}

// step advances the cycle by one game tick.
func (w *weatherCycle) step(tick int64) {
	if tick >= w.nextRainFlip {
		if w.rainTarget == 0 {
			w.rainTarget = 1
			w.nextRainFlip = tick + minRainTicks + w.rng.Int63n(rainTicksSpan)
		} else {
			w.rainTarget = 0
			w.nextRainFlip = tick + minClearTicks + w.rng.Int63n(clearTicksSpan)
		}
	}

	// Thunder only occurs while it is raining.
	if w.rainTarget == 0 {
		w.thunderTarget = 0
	} else if tick >= w.nextThunderFlip {
		if w.thunderTarget == 0 {
			w.thunderTarget = 1
			w.nextThunderFlip = tick + minThunderTicks + w.rng.Int63n(thunderSpan)
		} else {
			w.thunderTarget = 0
			w.nextThunderFlip = tick + minCalmTicks + w.rng.Int63n(calmTicksSpan)
		}
	}

	w.rain = approach(w.rain, w.rainTarget, rampPerTick)
	w.thunder = approach(w.thunder, w.thunderTarget, rampPerTick)
}

// set pins the current and target levels, clamped to [0,1]. Used by tests
// and config overrides.
func (w *weatherCycle) set(rain, thunder float64) {
	w.rain = clamp01(rain)
	w.thunder = clamp01(thunder)
	w.rainTarget = w.rain
	w.thunderTarget = w.thunder
}

func approach(v, target, step float64) float64 {
	if v < target {
		v += step
		if v > target {
			v = target
		}
		return v
	}
	if v > target {
		v -= step
		if v < target {
			v = target
		}
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
