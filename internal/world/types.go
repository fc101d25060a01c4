package world

import (
	"fmt"

	"github.com/sweeney/daylight-sensor/internal/logic"
)

// BlockPos identifies a block position in the world.
type BlockPos struct {
	X, Y, Z int
}

func (p BlockPos) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// NotifyStrength controls how broadly a committed state change propagates
// to dependent systems.
type NotifyStrength int

const (
	// NotifyListeners reaches direct observers only. Used for
	// player-visible changes that don't affect connected redstone.
	NotifyListeners NotifyStrength = iota
	// NotifyAll triggers full propagation, including redstone neighbours.
	NotifyAll
)

func (n NotifyStrength) String() string {
	switch n {
	case NotifyListeners:
		return "listeners"
	case NotifyAll:
		return "all"
	default:
		return fmt.Sprintf("NotifyStrength(%d)", int(n))
	}
}

// TickPriority orders scheduled ticks that fall due on the same game tick.
type TickPriority int

const (
	PriorityHigh TickPriority = iota
	PriorityNormal
	PriorityLow
)

// Change describes one committed block-state write.
type Change struct {
	Pos     BlockPos
	Props   logic.Properties
	Notify  NotifyStrength
	DayTime int64
}

// Sink receives committed changes. Sinks are invoked synchronously on the
// simulation goroutine, in registration order, after the write has landed.
type Sink interface {
	OnChange(Change)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Change)

func (f SinkFunc) OnChange(c Change) { f(c) }
