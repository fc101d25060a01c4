package world

import "testing"

func TestWeatherLevelsStayInRange(t *testing.T) {
	w := newWeatherCycle(42, 0)
	for tick := int64(1); tick <= 200000; tick++ {
		w.step(tick)
		if w.rain < 0 || w.rain > 1 {
			t.Fatalf("tick %d: rain = %v, out of [0,1]", tick, w.rain)
		}
		if w.thunder < 0 || w.thunder > 1 {
			t.Fatalf("tick %d: thunder = %v, out of [0,1]", tick, w.thunder)
		}
	}
}

func TestWeatherEventuallyRains(t *testing.T) {
	w := newWeatherCycle(42, 0)
	rained := false
	for tick := int64(1); tick <= 200000; tick++ {
		w.step(tick)
		if w.rain > 0 {
			rained = true
			break
		}
	}
	if !rained {
		t.Error("no rain in 200000 ticks")
	}
}

func TestWeatherThunderRequiresRain(t *testing.T) {
	w := newWeatherCycle(7, 0)
	for tick := int64(1); tick <= 200000; tick++ {
		w.step(tick)
		if w.thunderTarget == 1 && w.rainTarget == 0 {
			t.Fatalf("tick %d: thunder episode active with no rain episode", tick)
		}
	}
}

func TestWeatherDeterministicForSeed(t *testing.T) {
	a := newWeatherCycle(1337, 0)
	b := newWeatherCycle(1337, 0)
	for tick := int64(1); tick <= 50000; tick++ {
		a.step(tick)
		b.step(tick)
		if a.rain != b.rain || a.thunder != b.thunder {
			t.Fatalf("tick %d: same seed diverged", tick)
		}
	}
}

func TestWeatherSetClamps(t *testing.T) {
	w := newWeatherCycle(1, 0)
	w.set(2, -1)
	if w.rain != 1 {
		t.Errorf("rain = %v, want clamped 1", w.rain)
	}
	if w.thunder != 0 {
		t.Errorf("thunder = %v, want clamped 0", w.thunder)
	}
}

func TestApproach(t *testing.T) {
	if got := approach(0, 1, 0.3); got != 0.3 {
		t.Errorf("approach up = %v, want 0.3", got)
	}
	if got := approach(0.9, 1, 0.3); got != 1 {
		t.Errorf("approach overshoot = %v, want 1", got)
	}
	if got := approach(1, 0, 0.3); got != 0.7 {
		t.Errorf("approach down = %v, want 0.7", got)
	}
	if got := approach(0.5, 0.5, 0.3); got != 0.5 {
		t.Errorf("approach at target = %v, want 0.5", got)
	}
}
