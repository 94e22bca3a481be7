package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseDispatch Phase = iota // 0: deliver last tick's events
	PhaseUpdate                // 1: simulation step
	PhaseOutput                // 2: hand the snapshot to renderers
)

func (p Phase) String() string {
	switch p {
	case PhaseDispatch:
		return "dispatch"
	case PhaseUpdate:
		return "update"
	case PhaseOutput:
		return "output"
	}
	return "unknown"
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
