package game

import (
	"github.com/flappyball/core/internal/body"
	"go.uber.org/zap"
)

// Fly points gravity up. A paused session resumes; a finished one ignores it.
func (s *Session) Fly() {
	if s.snap.GameOver {
		return
	}
	if s.snap.Paused {
		s.clock.Start()
	}
	s.snap.Gravity = s.flyGravity()
}

// Fall points gravity down again.
func (s *Session) Fall() {
	if s.snap.GameOver {
		return
	}
	s.snap.Gravity = s.fallGravity()
}

// PauseOrResume toggles the clock unless the game is over.
func (s *Session) PauseOrResume() {
	if s.snap.GameOver {
		return
	}
	if s.clock.Running() {
		s.clock.Stop()
		return
	}
	s.clock.Start()
}

// Resize rebuilds the world for a new viewport. The clock is stopped first
// and stays stopped; the player resumes with Fly or PauseOrResume.
func (s *Session) Resize(vp body.Viewport) {
	vp = s.withNavbar(vp)
	if vp == s.snap.Viewport {
		return
	}
	s.clock.Stop()
	s.snap = s.snap.Recreate(vp, s.snap.ScaledPlayerCoords(vp))
	s.log.Info("world recreated",
		zap.Float64("width", vp.Width),
		zap.Float64("height", vp.Height),
		zap.String("orientation", vp.Orientation()))
	s.present()
}

// Restart begins a new round after game over on the same viewport.
func (s *Session) Restart() {
	if !s.snap.GameOver {
		return
	}
	vp := s.snap.Viewport
	s.snap.Teardown()
	s.newWorld(vp)
	s.present()
}

func (s *Session) flyGravity() float64 {
	if s.snap.Viewport.Landscape() {
		return s.tuning.LandscapeFly
	}
	return s.tuning.PortraitFly
}

func (s *Session) fallGravity() float64 {
	if s.snap.Viewport.Landscape() {
		return s.tuning.LandscapeFall
	}
	return s.tuning.PortraitFall
}
