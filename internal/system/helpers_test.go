package system

import (
	"testing"

	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/config"
	"github.com/flappyball/core/internal/core/event"
	"github.com/flappyball/core/internal/world"
	"go.uber.org/zap"
)

// cycle hands out spawn patterns in order, wrapping around.
type cycle [][]body.Side

func (c cycle) Sides(n, _ int) []body.Side { return c[n%len(c)] }

var (
	single = []body.Side{body.Down}
	pair   = []body.Side{body.Up, body.Down}
)

const eps = 1e-9

func testTuning() config.WorldConfig {
	tuning := config.Defaults().World
	tuning.SpawnThreshold = 0.2
	return tuning
}

// newSnapshot builds an 800×600 world with the player at its default spot.
func newSnapshot(t *testing.T, player body.Coords) *world.Snapshot {
	t.Helper()
	tuning := testTuning()
	vp := body.Viewport{Width: 800, Height: 600}
	return world.Initialize(world.NewSpace(tuning), vp, tuning, player)
}

func newManager(patterns PatternSource) (*ObstacleManager, *event.Bus) {
	bus := event.NewBus()
	return NewObstacleManager(patterns, bus, zap.NewNop()), bus
}

func obstacleXs(s *world.Snapshot) []float64 {
	var xs []float64
	for i := 0; i < s.Obstacles.Len(); i++ {
		_, o, _ := s.Obstacles.At(i)
		xs = append(xs, o.Position().X)
	}
	return xs
}
