package detector

import (
	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/world"
)

// FakeWorld is a test double implementing the World interface with directly
// settable environment values and recorded writes and schedules.
type FakeWorld struct {
	// Skylight controls HasSkylight.
	Skylight bool

	// Light is the sky light returned for every position.
	Light int

	// Rain, Thunder, and Time are the environment values handed to the
	// evaluator.
	Rain    float64
	Thunder float64
	Time    int64

	// States holds the stored block states.
	States map[world.BlockPos]logic.Properties

	// Writes records every SetBlockState call in order.
	Writes []Write

	// Scheduled records every ScheduleTick call in order.
	Scheduled []Schedule
}

// Write records one SetBlockState call.
type Write struct {
	Pos    world.BlockPos
	Props  logic.Properties
	Notify world.NotifyStrength
}

// Schedule records one ScheduleTick call.
type Schedule struct {
	Pos   world.BlockPos
	Delay int64
	Prio  world.TickPriority
}

// NewFakeWorld creates a FakeWorld with skylight, full light, and clear
// weather at noon.
func NewFakeWorld() *FakeWorld {
	return &FakeWorld{
		Skylight: true,
		Light:    15,
		Time:     6000,
		States:   make(map[world.BlockPos]logic.Properties),
	}
}

func (f *FakeWorld) HasSkylight() bool                   { return f.Skylight }
func (f *FakeWorld) SkyLight(pos world.BlockPos) int     { return f.Light }
func (f *FakeWorld) RainLevel() float64                  { return f.Rain }
func (f *FakeWorld) ThunderLevel() float64               { return f.Thunder }
func (f *FakeWorld) DayTime() int64                      { return f.Time }

func (f *FakeWorld) BlockState(pos world.BlockPos) (logic.Properties, bool) {
	props, ok := f.States[pos]
	return props, ok
}

func (f *FakeWorld) SetBlockState(pos world.BlockPos, props logic.Properties, notify world.NotifyStrength) {
	if _, ok := f.States[pos]; !ok {
		return
	}
	f.States[pos] = props
	f.Writes = append(f.Writes, Write{Pos: pos, Props: props, Notify: notify})
}

func (f *FakeWorld) ScheduleTick(pos world.BlockPos, delay int64, prio world.TickPriority) {
	f.Scheduled = append(f.Scheduled, Schedule{Pos: pos, Delay: delay, Prio: prio})
}

// Reset clears recorded writes and schedules, keeping states and
// environment.
func (f *FakeWorld) Reset() {
	f.Writes = nil
	f.Scheduled = nil
}
