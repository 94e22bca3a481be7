package world

import (
	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/config"
	"github.com/flappyball/core/internal/core/ecs"
	"github.com/jakecoffman/cp"
)

// NoGap marks that no gap has been scored yet.
const NoGap = -1

// Obstacle is one scrolling kinematic body. Obstacles spawned by the same spawn
// event share a Gap and score once between them.
type Obstacle struct {
	body.Descriptor
	Side body.Side
	Gap  int
}

// Snapshot is the live world consumed by one simulation tick.
// Accessed only from the loop goroutine.
type Snapshot struct {
	Space    *cp.Space // owned by the snapshot; never copied
	Viewport body.Viewport
	Tuning   config.WorldConfig

	Player body.Descriptor
	Floor  body.Descriptor
	Roof   body.Descriptor

	// Gravity is written by input (fly/fall) and read every tick.
	Gravity float64

	// Obstacles is ordered head (oldest, leftmost) to tail (newest, rightmost).
	Obstacles *ecs.OrderedStore[Obstacle]
	ids       *ecs.EntityPool

	// NextUnpassed indexes into Obstacles: the first obstacle the player has
	// not yet cleared.
	NextUnpassed  int
	LastScoredGap int
	Spawns        int // spawn events so far; also the next gap id

	Score    int
	GameOver bool // one-way
	Paused   bool
}

// NewSpace creates the physics space every snapshot of a session shares.
func NewSpace(tuning config.WorldConfig) *cp.Space {
	space := cp.NewSpace()
	space.SetDamping(tuning.Damping)
	space.SetGravity(cp.Vector{X: 0, Y: tuning.InitialGravity * tuning.GravityScale})
	return space
}

// Initialize builds a fresh snapshot on space: player, floor and roof, no
// obstacles, default gravity, zero score, paused until the first input.
func Initialize(space *cp.Space, vp body.Viewport, tuning config.WorldConfig, player body.Coords) *Snapshot {
	s := &Snapshot{
		Space:         space,
		Viewport:      vp,
		Tuning:        tuning,
		Gravity:       tuning.InitialGravity,
		Obstacles:     ecs.NewOrderedStore[Obstacle](),
		ids:           ecs.NewEntityPool(),
		LastScoredGap: NoGap,
		Paused:        true,
	}
	f := s.Factory()
	s.Player = f.Player(player)
	s.Floor = f.Floor()
	s.Roof = f.Roof()
	return s
}

// Factory returns a body factory bound to this snapshot's space and viewport.
func (s *Snapshot) Factory() *body.Factory {
	return &body.Factory{Space: s.Space, Viewport: s.Viewport, Tuning: s.Tuning}
}

// SpawnObstacle creates an obstacle under the lowest free id and appends it
// to the tail.
func (s *Snapshot) SpawnObstacle(at body.Coords, side body.Side, gap int) (ecs.EntityID, *Obstacle) {
	o := &Obstacle{
		Descriptor: s.Factory().Obstacle(at, side),
		Side:       side,
		Gap:        gap,
	}
	id := s.ids.Create()
	s.Obstacles.PushBack(id, o)
	return id, o
}

// RemoveHead removes the head obstacle's body from the space, drops the
// entity and retires its id. The pass cursor shifts with the collection.
func (s *Snapshot) RemoveHead() (ecs.EntityID, bool) {
	id, o, ok := s.Obstacles.PopFront()
	if !ok {
		return 0, false
	}
	body.Remove(s.Space, o.Descriptor)
	s.ids.Destroy(id)
	if s.NextUnpassed > 0 {
		s.NextUnpassed--
	}
	return id, true
}

// FreedIDs lists retired obstacle ids, lowest first.
func (s *Snapshot) FreedIDs() []ecs.EntityID {
	return s.ids.Free()
}

// ObstacleIDs lists live obstacle ids, head first.
func (s *Snapshot) ObstacleIDs() []ecs.EntityID {
	return s.Obstacles.IDs()
}

// EngineGravity converts the gravity scalar into the space's acceleration.
// Positive y points down the screen.
func (s *Snapshot) EngineGravity() cp.Vector {
	return cp.Vector{X: 0, Y: s.Gravity * s.Tuning.GravityScale}
}

// Teardown removes every body the snapshot registered.
func (s *Snapshot) Teardown() {
	for s.Obstacles.Len() > 0 {
		_, o, _ := s.Obstacles.PopFront()
		body.Remove(s.Space, o.Descriptor)
	}
	body.Remove(s.Space, s.Player)
	body.Remove(s.Space, s.Floor)
	body.Remove(s.Space, s.Roof)
}

// Recreate rebuilds the world for a new viewport on the same space. All
// positions are recomputed from scratch and gravity goes back to its
// default; score and the pause/over flags carry over. The driving clock must
// be stopped first.
func (s *Snapshot) Recreate(vp body.Viewport, player body.Coords) *Snapshot {
	s.Teardown()
	next := Initialize(s.Space, vp, s.Tuning, player)
	next.Score = s.Score
	next.GameOver = s.GameOver
	next.Paused = s.Paused
	return next
}

// ScaledPlayerCoords keeps the player's x and maps its y into vp's
// playfield proportionally.
func (s *Snapshot) ScaledPlayerCoords(vp body.Viewport) body.Coords {
	p := s.Player.Position()
	y := p.Y
	if gh := s.Viewport.GameHeight(); gh > 0 {
		y = p.Y * vp.GameHeight() / gh
	}
	return body.At(p.X, y)
}
