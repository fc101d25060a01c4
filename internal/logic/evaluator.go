package logic

import "math"

// NormalizeTimeOfDay maps the raw day counter to a cyclic fractional-day
// phase in [0,1). The quarter-day offset aligns phase 0 with noon, and the
// cosine easing term compresses apparent time near sunrise and sunset so
// the sun appears to move more smoothly than linear time would give.
func NormalizeTimeOfDay(dayTime int64) float64 {
	d := frac(float64(dayTime)/TicksPerDay - 0.25)
	e := 0.5 - math.Cos(d*math.Pi)/2
	return (2*d + e) / 3
}

// SkyDarken converts the time phase and weather intensities into the amount
// of light subtracted from raw sky light, in [0,MaxDarken].
//
// This is the brightness-inversion formulation: a clamped cosine plateau
// gives full brightness at midday and none at night, rain and thunder each
// attenuate it multiplicatively, and the result is inverted and scaled.
// A subtraction-table variant of this pipeline exists elsewhere; the two
// are close but not interchangeable, so only this one is used here.
func SkyDarken(phase, rain, thunder float64) int {
	f := 1 - (math.Cos(phase*2*math.Pi)*2 + 0.5)
	f = clampf(f, 0, 1)
	f = 1 - f
	f *= 1 - rain*5/16
	f *= 1 - thunder*5/16
	f = 1 - f
	return int(f * MaxDarken)
}

// InternalLight is sky light minus darkening. Deliberately unclamped:
// negative values are meaningful inputs to ComputePower and naturally
// suppress output.
func InternalLight(skyLight, darken int) int {
	return skyLight - darken
}

// SunAngle converts a time phase to radians in [0,2π).
func SunAngle(phase float64) float64 {
	return phase * 2 * math.Pi
}

// ComputePower quantizes internal light into a redstone power level.
//
// In daylight mode the sun angle is eased 20% toward the nearest extreme
// (0 before the angle reaches π, 2π after) so the output lags toward the
// daytime peak instead of oscillating sharply at dawn and dusk.
func ComputePower(internalLight int, inverted bool, phase float64) PowerLevel {
	var signal int
	switch {
	case inverted:
		signal = MaxPower - internalLight
	case internalLight > 0:
		angle := SunAngle(phase)
		target := 2 * math.Pi
		if angle < math.Pi {
			target = 0
		}
		angle += (target - angle) * 0.2
		signal = int(math.Round(float64(internalLight) * math.Cos(angle)))
	default:
		signal = 0
	}
	return PowerLevel(clampi(signal, 0, MaxPower))
}

// Evaluate runs the full pipeline for one environment snapshot.
func Evaluate(env Snapshot, inverted bool) PowerLevel {
	phase := NormalizeTimeOfDay(env.DayTime)
	darken := SkyDarken(phase, env.Rain, env.Thunder)
	return ComputePower(InternalLight(env.SkyLight, darken), inverted, phase)
}

func frac(x float64) float64 { return x - math.Floor(x) }

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampi(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
