package system

import (
	"time"

	"github.com/flappyball/core/internal/core/event"
	coresys "github.com/flappyball/core/internal/core/system"
)

// EventDispatchSystem delivers the previous tick's events at tick start.
// Phase 0 (Dispatch).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseDispatch }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.Flush()
}
