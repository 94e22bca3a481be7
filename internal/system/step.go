package system

import (
	"time"

	coresys "github.com/flappyball/core/internal/core/system"
	"github.com/flappyball/core/internal/world"
)

// TickInfo describes the frame being simulated.
type TickInfo struct {
	Delta time.Duration
}

// Simulation advances a snapshot by one frame.
type Simulation struct {
	Obstacles *ObstacleManager
}

// Step pushes the snapshot's gravity into the space, runs the obstacle
// lifecycle once, then advances the physics by Delta. With no elapsed time
// nothing moves, but pass, removal and spawn checks still run.
func (sim *Simulation) Step(s *world.Snapshot, tick TickInfo) *world.Snapshot {
	s.Space.SetGravity(s.EngineGravity())
	if tick.Delta <= 0 {
		sim.Obstacles.Check(s)
		return s
	}
	sim.Obstacles.Update(s)
	s.Space.Step(tick.Delta.Seconds())
	return s
}

// StepSystem runs the simulation for whatever snapshot is current.
// Phase 1 (Update).
type StepSystem struct {
	sim     *Simulation
	current func() *world.Snapshot
}

func NewStepSystem(sim *Simulation, current func() *world.Snapshot) *StepSystem {
	return &StepSystem{sim: sim, current: current}
}

func (s *StepSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *StepSystem) Update(dt time.Duration) {
	s.sim.Step(s.current(), TickInfo{Delta: dt})
}
