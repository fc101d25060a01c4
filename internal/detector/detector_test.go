package detector

import (
	"testing"

	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/world"
)

var pos = world.BlockPos{X: 1, Y: 64, Z: -3}

func TestPlacedSchedulesTick(t *testing.T) {
	f := NewFakeWorld()
	var b Behaviour

	b.Placed(f, pos)

	if len(f.Scheduled) != 1 {
		t.Fatalf("expected 1 scheduled tick, got %d", len(f.Scheduled))
	}
	s := f.Scheduled[0]
	if s.Pos != pos {
		t.Errorf("scheduled pos = %v, want %v", s.Pos, pos)
	}
	if s.Delay != TickDelay {
		t.Errorf("scheduled delay = %d, want %d", s.Delay, TickDelay)
	}
	if s.Prio != world.PriorityNormal {
		t.Errorf("scheduled priority = %v, want normal", s.Prio)
	}
}

func TestPlacedInertWithoutSkylight(t *testing.T) {
	f := NewFakeWorld()
	f.Skylight = false
	var b Behaviour

	b.Placed(f, pos)

	if len(f.Scheduled) != 0 {
		t.Errorf("detector in skyless dimension scheduled %d ticks, want 0", len(f.Scheduled))
	}
}

func TestTickWritesNewPowerAndRearms(t *testing.T) {
	f := NewFakeWorld() // noon, full light
	f.States[pos] = logic.Properties{}
	var b Behaviour

	b.OnScheduledTick(f, pos)

	if len(f.Writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(f.Writes))
	}
	w := f.Writes[0]
	if w.Props.Power != 15 {
		t.Errorf("written power = %d, want 15", w.Props.Power)
	}
	if w.Props.Inverted {
		t.Error("tick must not change inverted")
	}
	if w.Notify != world.NotifyAll {
		t.Errorf("power write notify = %v, want all", w.Notify)
	}
	if len(f.Scheduled) != 1 || f.Scheduled[0].Delay != TickDelay {
		t.Fatalf("tick did not re-arm at delay %d: %+v", TickDelay, f.Scheduled)
	}
}

func TestTickIdempotentWhenEnvironmentUnchanged(t *testing.T) {
	f := NewFakeWorld()
	f.States[pos] = logic.Properties{Power: 15}
	var b Behaviour

	for i := 0; i < 5; i++ {
		b.OnScheduledTick(f, pos)
	}

	if len(f.Writes) != 0 {
		t.Errorf("unchanged environment produced %d writes, want 0", len(f.Writes))
	}
	if len(f.Scheduled) != 5 {
		t.Errorf("expected re-arm on every tick, got %d", len(f.Scheduled))
	}
}

func TestTickReadsFreshEnvironment(t *testing.T) {
	f := NewFakeWorld()
	f.States[pos] = logic.Properties{Power: 15}
	var b Behaviour

	// Night falls between ticks.
	f.Time = 18000
	f.Light = 0
	b.OnScheduledTick(f, pos)

	if len(f.Writes) != 1 {
		t.Fatalf("expected 1 write after nightfall, got %d", len(f.Writes))
	}
	if f.Writes[0].Props.Power != 0 {
		t.Errorf("night power = %d, want 0", f.Writes[0].Props.Power)
	}
}

func TestTickMissingBlock(t *testing.T) {
	f := NewFakeWorld()
	var b Behaviour

	b.OnScheduledTick(f, pos)

	if len(f.Writes) != 0 {
		t.Errorf("tick on removed block wrote %d states", len(f.Writes))
	}
	if len(f.Scheduled) != 0 {
		t.Errorf("tick on removed block re-armed %d ticks", len(f.Scheduled))
	}
}

func TestToggleFlipsThenRecomputes(t *testing.T) {
	f := NewFakeWorld() // noon, full light
	f.States[pos] = logic.Properties{Power: 15}
	var b Behaviour

	if !b.Use(f, pos) {
		t.Fatal("Use returned false for existing block")
	}

	if len(f.Writes) != 2 {
		t.Fatalf("expected 2 writes (flip + power), got %d", len(f.Writes))
	}

	flip := f.Writes[0]
	if !flip.Props.Inverted {
		t.Error("first write should carry the flipped inverted value")
	}
	if flip.Props.Power != 15 {
		t.Errorf("first write power = %d, want the pre-toggle 15", flip.Props.Power)
	}
	if flip.Notify != world.NotifyListeners {
		t.Errorf("mode flip notify = %v, want listeners", flip.Notify)
	}

	power := f.Writes[1]
	if !power.Props.Inverted {
		t.Error("second write lost the inverted flag")
	}
	if power.Props.Power != 0 {
		t.Errorf("inverted noon power = %d, want 0", power.Props.Power)
	}
	if power.Notify != world.NotifyAll {
		t.Errorf("power write notify = %v, want all", power.Notify)
	}
}

func TestTogglePersistsEvaluatorOutput(t *testing.T) {
	// After any toggle the stored power must equal the evaluator's output
	// for the new inverted value under the current environment.
	envs := []struct {
		light   int
		rain    float64
		thunder float64
		time    int64
	}{
		{15, 0, 0, 6000},
		{15, 1, 0, 6000},
		{15, 1, 1, 9000},
		{0, 0, 0, 18000},
		{8, 0.5, 0, 13000},
	}

	for _, env := range envs {
		f := NewFakeWorld()
		f.Light = env.light
		f.Rain = env.rain
		f.Thunder = env.thunder
		f.Time = env.time

		start := logic.Evaluate(logic.Snapshot{
			SkyLight: env.light, Rain: env.rain, Thunder: env.thunder, DayTime: env.time,
		}, false)
		f.States[pos] = logic.Properties{Power: start}

		var b Behaviour
		b.Use(f, pos)

		want := logic.Evaluate(logic.Snapshot{
			SkyLight: env.light, Rain: env.rain, Thunder: env.thunder, DayTime: env.time,
		}, true)
		got := f.States[pos]
		if !got.Inverted {
			t.Errorf("env %+v: inverted not persisted", env)
		}
		if got.Power != want {
			t.Errorf("env %+v: stored power = %d, want evaluator output %d", env, got.Power, want)
		}
	}
}

func TestDoubleToggleRestores(t *testing.T) {
	f := NewFakeWorld()
	start := logic.Evaluate(logic.Snapshot{SkyLight: 15, DayTime: 6000}, false)
	f.States[pos] = logic.Properties{Power: start}
	var b Behaviour

	b.Use(f, pos)
	mid := f.States[pos]
	if !mid.Inverted {
		t.Fatal("first toggle did not set inverted")
	}

	b.Use(f, pos)
	end := f.States[pos]
	if end.Inverted {
		t.Error("second toggle did not clear inverted")
	}
	if end.Power != start {
		t.Errorf("power after double toggle = %d, want original %d", end.Power, start)
	}
}

func TestToggleMissingBlock(t *testing.T) {
	f := NewFakeWorld()
	var b Behaviour

	if b.Use(f, pos) {
		t.Error("Use on removed block should return false")
	}
	if len(f.Writes) != 0 {
		t.Errorf("Use on removed block wrote %d states", len(f.Writes))
	}
}

func TestRedstoneQueries(t *testing.T) {
	f := NewFakeWorld()
	f.States[pos] = logic.Properties{Inverted: true, Power: 7}
	var b Behaviour

	if !b.EmitsRedstonePower() {
		t.Error("daylight detectors always emit redstone power")
	}
	if got := b.WeakRedstonePower(f, pos); got != 7 {
		t.Errorf("weak power = %d, want stored 7", got)
	}
	if got := b.WeakRedstonePower(f, world.BlockPos{X: 9}); got != 0 {
		t.Errorf("weak power for missing block = %d, want 0", got)
	}
}
