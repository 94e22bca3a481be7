package system

import (
	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/core/ecs"
	"github.com/flappyball/core/internal/core/event"
	"github.com/flappyball/core/internal/world"
	"go.uber.org/zap"
)

// PatternSource decides which obstacles make up spawn event n.
// A single side is a lone obstacle; Up+Down is a pair forming one gap.
type PatternSource interface {
	Sides(n, score int) []body.Side
}

// ObstacleManager scrolls, scores, recycles and spawns obstacles. It keeps no
// state of its own: everything lives on the snapshot it is handed.
type ObstacleManager struct {
	patterns PatternSource
	bus      *event.Bus
	log      *zap.Logger
}

func NewObstacleManager(patterns PatternSource, bus *event.Bus, log *zap.Logger) *ObstacleManager {
	return &ObstacleManager{patterns: patterns, bus: bus, log: log}
}

// Update runs one tick of the lifecycle: advance, pass detection, removal,
// spawn. The order is fixed.
func (m *ObstacleManager) Update(s *world.Snapshot) {
	m.Advance(s)
	m.DetectPass(s)
	m.RemoveExpired(s)
	m.SpawnNext(s)
}

// Check runs the lifecycle without scrolling: pass, removal and spawn
// decisions are taken from the current positions alone.
func (m *ObstacleManager) Check(s *world.Snapshot) {
	m.DetectPass(s)
	m.RemoveExpired(s)
	m.SpawnNext(s)
}

// Advance moves every live obstacle left by the scroll delta.
func (m *ObstacleManager) Advance(s *world.Snapshot) {
	dx := -s.Tuning.ScrollDelta
	s.Obstacles.Each(func(_ ecs.EntityID, o *world.Obstacle) {
		body.Translate(o.Descriptor, dx, 0)
	})
}

// DetectPass checks the obstacle under the pass cursor. Once the player is
// fully past it (left edge beyond the obstacle's right edge) the cursor
// advances. The score goes up only for a gap not scored yet, so a pair
// counts once no matter when its first half is removed.
func (m *ObstacleManager) DetectPass(s *world.Snapshot) bool {
	_, o, ok := s.Obstacles.At(s.NextUnpassed)
	if !ok {
		return false
	}
	if s.Player.LeftEdge() <= o.RightEdge() {
		return false
	}
	s.NextUnpassed++
	if o.Gap == s.LastScoredGap {
		m.log.Debug("paired obstacle passed", zap.Int("gap", o.Gap))
		return false
	}
	s.Score++
	s.LastScoredGap = o.Gap
	event.Emit(m.bus, event.Scored{Score: s.Score, Gap: o.Gap})
	m.log.Debug("gap passed", zap.Int("gap", o.Gap), zap.Int("score", s.Score))
	return true
}

// RemoveExpired drops the head obstacle once its trailing edge has crossed
// the left boundary. Obstacles leave in spawn order, so only the head is
// inspected.
func (m *ObstacleManager) RemoveExpired(s *world.Snapshot) bool {
	_, head, ok := s.Obstacles.Front()
	if !ok {
		return false
	}
	if head.RightEdge() >= -s.Tuning.LeftInset {
		return false
	}
	id, _ := s.RemoveHead()
	event.Emit(m.bus, event.ObstacleRemoved{ID: id})
	m.log.Debug("obstacle removed", zap.Int("id", int(id)))
	return true
}

// SpawnNext appends the next spawn event at the right edge when the collection
// is empty or enough room has opened behind the tail. Returns how many
// obstacles were created.
func (m *ObstacleManager) SpawnNext(s *world.Snapshot) int {
	if _, tail, ok := s.Obstacles.Back(); ok {
		width := s.Viewport.Width
		open := (width - tail.Position().X) / width
		if open < s.Tuning.SpawnThreshold {
			return 0
		}
	}

	var sides []body.Side
	if m.patterns != nil {
		sides = m.patterns.Sides(s.Spawns, s.Score)
	}
	if len(sides) == 0 {
		sides = []body.Side{body.Down}
	}
	gap := s.Spawns
	s.Spawns++
	for _, side := range sides {
		id, o := s.SpawnObstacle(body.Coords{}, side, gap)
		event.Emit(m.bus, event.ObstacleSpawned{ID: id, Gap: gap, Side: string(side), X: o.Position().X})
		m.log.Debug("obstacle spawned", zap.Int("id", int(id)), zap.String("side", string(side)), zap.Int("gap", gap))
	}
	return len(sides)
}
