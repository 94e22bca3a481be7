package spectate

import (
	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/core/ecs"
	"github.com/flappyball/core/internal/world"
)

// Frame is one msgpack-encoded world update sent to spectators.
type Frame struct {
	Seq       uint64          `msgpack:"seq"`
	Width     float64         `msgpack:"w"`
	Height    float64         `msgpack:"h"`
	Navbar    float64         `msgpack:"nav"`
	Player    Box             `msgpack:"player"`
	Floor     Box             `msgpack:"floor"`
	Roof      Box             `msgpack:"roof"`
	Obstacles []ObstacleFrame `msgpack:"obstacles"`
	Score     int             `msgpack:"score"`
	Paused    bool            `msgpack:"paused"`
	GameOver  bool            `msgpack:"over"`
}

// Box is a body's center and size.
type Box struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	W float64 `msgpack:"w"`
	H float64 `msgpack:"h"`
}

type ObstacleFrame struct {
	ID   int    `msgpack:"id"`
	Side string `msgpack:"side"`
	Box
}

// FrameOf copies what spectators need out of the snapshot.
func FrameOf(snap *world.Snapshot, seq uint64) Frame {
	f := Frame{
		Seq:       seq,
		Width:     snap.Viewport.Width,
		Height:    snap.Viewport.Height,
		Navbar:    snap.Viewport.Navbar,
		Player:    boxOf(snap.Player),
		Floor:     boxOf(snap.Floor),
		Roof:      boxOf(snap.Roof),
		Obstacles: make([]ObstacleFrame, 0, snap.Obstacles.Len()),
		Score:     snap.Score,
		Paused:    snap.Paused,
		GameOver:  snap.GameOver,
	}
	snap.Obstacles.Each(func(id ecs.EntityID, o *world.Obstacle) {
		f.Obstacles = append(f.Obstacles, ObstacleFrame{
			ID:   int(id),
			Side: string(o.Side),
			Box:  boxOf(o.Descriptor),
		})
	})
	return f
}

func boxOf(d body.Descriptor) Box {
	p := d.Position()
	return Box{X: p.X, Y: p.Y, W: d.Size[0], H: d.Size[1]}
}
