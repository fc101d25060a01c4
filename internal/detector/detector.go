// Package detector implements the daylight detector block behaviour:
// placement, the self-perpetuating scheduled tick, the inverted-mode
// toggle, and the redstone power queries.
package detector

import (
	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/world"
)

// TickDelay is the fixed re-evaluation cadence in game ticks.
const TickDelay = 20

// World is the slice of the world a daylight detector needs. Satisfied by
// *world.World and by FakeWorld in tests.
type World interface {
	HasSkylight() bool
	SkyLight(pos world.BlockPos) int
	RainLevel() float64
	ThunderLevel() float64
	DayTime() int64
	BlockState(pos world.BlockPos) (logic.Properties, bool)
	SetBlockState(pos world.BlockPos, props logic.Properties, notify world.NotifyStrength)
	ScheduleTick(pos world.BlockPos, delay int64, prio world.TickPriority)
}

// Behaviour is the stateless daylight detector block behaviour. All state
// lives in the world; each invocation is a fresh, independent operation.
type Behaviour struct{}

// Placed arms the periodic tick for a newly placed detector. In a dimension
// without skylight the detector is permanently inert and never ticks.
func (Behaviour) Placed(w World, pos world.BlockPos) {
	if !w.HasSkylight() {
		return
	}
	w.ScheduleTick(pos, TickDelay, world.PriorityNormal)
}

// OnScheduledTick re-evaluates the detector and unconditionally re-arms the
// next tick, making the tick self-perpetuating for the block's lifetime.
func (Behaviour) OnScheduledTick(w World, pos world.BlockPos) {
	props, ok := w.BlockState(pos)
	if !ok {
		return
	}
	updatePower(w, pos, props.Inverted, props.Power)
	w.ScheduleTick(pos, TickDelay, world.PriorityNormal)
}

// Use toggles inverted mode. The mode flip is written immediately with a
// listeners-only notification — it is a direct player-visible change — and
// the power is then recomputed under the new mode, with any resulting
// change written at full propagation strength since it affects connected
// redstone. Returns false only if the block no longer exists.
func (Behaviour) Use(w World, pos world.BlockPos) bool {
	props, ok := w.BlockState(pos)
	if !ok {
		return false
	}

	toggled := logic.Properties{Inverted: !props.Inverted, Power: props.Power}
	w.SetBlockState(pos, toggled, world.NotifyListeners)

	updatePower(w, pos, toggled.Inverted, toggled.Power)
	return true
}

// EmitsRedstonePower always reports true for daylight detectors.
func (Behaviour) EmitsRedstonePower() bool { return true }

// WeakRedstonePower reports the currently stored power without
// recomputation.
func (Behaviour) WeakRedstonePower(w World, pos world.BlockPos) logic.PowerLevel {
	props, _ := w.BlockState(pos)
	return props.Power
}

// updatePower evaluates the detector against a fresh environment snapshot
// and writes the state only if the power actually changed. Ticks fire for
// the block's entire lifetime, so skipping no-op writes is what keeps
// notification volume bounded.
func updatePower(w World, pos world.BlockPos, inverted bool, current logic.PowerLevel) {
	env := logic.Snapshot{
		SkyLight: w.SkyLight(pos),
		Rain:     w.RainLevel(),
		Thunder:  w.ThunderLevel(),
		DayTime:  w.DayTime(),
	}

	next := logic.Evaluate(env, inverted)
	if next == current {
		return
	}
	w.SetBlockState(pos, logic.Properties{Inverted: inverted, Power: next}, world.NotifyAll)
}
