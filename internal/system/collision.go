package system

import (
	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/core/event"
	"github.com/flappyball/core/internal/world"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"
)

// MonitorState is Active until the first contact, then Over for good.
type MonitorState int

const (
	Active MonitorState = iota
	Over
)

func (s MonitorState) String() string {
	if s == Over {
		return "over"
	}
	return "active"
}

// Clock is the part of the driving clock the monitor needs.
type Clock interface {
	Stop()
	Defer(fn func())
}

// CollisionMonitor ends the session on any contact the space reports.
type CollisionMonitor struct {
	state   MonitorState
	current func() *world.Snapshot
	clock   Clock
	bus     *event.Bus
	log     *zap.Logger
}

func NewCollisionMonitor(current func() *world.Snapshot, clock Clock, bus *event.Bus, log *zap.Logger) *CollisionMonitor {
	return &CollisionMonitor{current: current, clock: clock, bus: bus, log: log}
}

// Register installs the monitor on space. Call once per space; the snapshot
// is resolved on each contact.
func (m *CollisionMonitor) Register(space *cp.Space) {
	h := space.NewWildcardCollisionHandler(body.CollisionPlayer)
	h.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		m.OnContact()
		return true
	}
}

// OnContact flips Active→Over. The snapshot is marked over and paused at
// once; the clock stop runs on the clock's next pass, never inside the
// physics callback.
func (m *CollisionMonitor) OnContact() {
	if m.state == Over {
		return
	}
	m.state = Over

	s := m.current()
	s.GameOver = true
	s.Paused = true
	event.Emit(m.bus, event.GameOver{Score: s.Score})
	m.clock.Defer(m.clock.Stop)

	m.log.Info("collision, game over", zap.Int("score", s.Score))
}

func (m *CollisionMonitor) State() MonitorState {
	return m.state
}
