package system

import (
	"time"

	coresys "github.com/flappyball/core/internal/core/system"
	"github.com/flappyball/core/internal/world"
)

// Renderer receives the snapshot once per tick. It must not mutate it.
type Renderer interface {
	Render(s *world.Snapshot)
}

// RenderSystem hands the current snapshot to every renderer.
// Phase 2 (Output).
type RenderSystem struct {
	renderers []Renderer
	current   func() *world.Snapshot
}

func NewRenderSystem(current func() *world.Snapshot, renderers ...Renderer) *RenderSystem {
	return &RenderSystem{renderers: renderers, current: current}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RenderSystem) Update(_ time.Duration) {
	s.RenderNow()
}

// Add registers another renderer.
func (s *RenderSystem) Add(r Renderer) {
	s.renderers = append(s.renderers, r)
}

// RenderNow pushes a frame outside the tick, e.g. after a resize or game over.
func (s *RenderSystem) RenderNow() {
	snap := s.current()
	for _, r := range s.renderers {
		r.Render(snap)
	}
}
