package body

import (
	"github.com/flappyball/core/internal/config"
	"github.com/jakecoffman/cp"
)

// Collision types attached to shapes. Only the player is dynamic and
// kinematic obstacles never collide with the static floor or roof, so every
// contact the space reports involves CollisionPlayer.
const (
	CollisionPlayer cp.CollisionType = iota + 1
	CollisionStatic
)

type Kind int

const (
	KindCircle Kind = iota
	KindRect
)

// Side places an obstacle against the floor or the roof.
type Side string

const (
	Down Side = "down"
	Up   Side = "up"
)

func (s Side) Valid() bool { return s == Down || s == Up }

// Descriptor is a body registered with the space plus what a renderer needs
// to draw it. Size is width×height; for circles both are the diameter.
// Static marks the floor and roof; obstacles are kinematic so the space
// re-indexes them as they scroll.
type Descriptor struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Size   [2]float64
	Color  string
	Kind   Kind
	Static bool
}

// Factory builds bodies for one viewport and adds them to Space.
// Dimensions are not validated.
type Factory struct {
	Space    *cp.Space
	Viewport Viewport
	Tuning   config.WorldConfig
}

const playerMass = 1.0

func (f *Factory) Player(at Coords) Descriptor {
	size := f.Viewport.GameHeight() * f.Tuning.PlayerSize
	x, y := f.Tuning.PlayerX, f.Tuning.PlayerY
	if at.HasX {
		x = at.X
	}
	if at.HasY {
		y = at.Y
	}

	radius := size / 2
	b := cp.NewBody(playerMass, cp.MomentForCircle(playerMass, 0, radius, cp.Vector{}))
	b.SetPosition(cp.Vector{X: x, Y: y})
	shape := cp.NewCircle(b, radius, cp.Vector{})
	shape.SetCollisionType(CollisionPlayer)
	f.Space.AddBody(b)
	f.Space.AddShape(shape)

	return Descriptor{
		Body:  b,
		Shape: shape,
		Size:  [2]float64{size, size},
		Color: "red",
		Kind:  KindCircle,
	}
}

func (f *Factory) Floor() Descriptor {
	gh := f.Viewport.GameHeight()
	w, h := f.Viewport.Width, gh*f.Tuning.FloorHeight
	return f.rect(cp.NewStaticBody(), w/2, gh-h/2, w, h, "green")
}

func (f *Factory) Roof() Descriptor {
	gh := f.Viewport.GameHeight()
	w, h := f.Viewport.Width, gh*f.Tuning.RoofHeight
	return f.rect(cp.NewStaticBody(), w/2, h/2, w, h, "brown")
}

// ObstacleSize returns the width and height every obstacle shares.
func (f *Factory) ObstacleSize() (float64, float64) {
	gh := f.Viewport.GameHeight()
	return gh * f.Tuning.ObstacleWidth, gh * f.Tuning.ObstacleHeight
}

// Obstacle spawns off-screen to the right unless X is given, flush against
// the floor or roof unless Y is given.
func (f *Factory) Obstacle(at Coords, side Side) Descriptor {
	gh := f.Viewport.GameHeight()
	w, h := f.ObstacleSize()

	x := f.Viewport.Width + w/2
	if at.HasX {
		x = at.X
	}
	var y float64
	switch {
	case at.HasY:
		y = at.Y
	case side == Up:
		y = gh*f.Tuning.RoofHeight + h/2
	default:
		y = gh - gh*f.Tuning.FloorHeight - h/2
	}
	return f.rect(cp.NewKinematicBody(), x, y, w, h, "black")
}

func (f *Factory) rect(b *cp.Body, x, y, w, h float64, color string) Descriptor {
	b.SetPosition(cp.Vector{X: x, Y: y})
	shape := cp.NewBox(b, w, h, 0)
	shape.SetCollisionType(CollisionStatic)
	f.Space.AddBody(b)
	f.Space.AddShape(shape)

	return Descriptor{
		Body:   b,
		Shape:  shape,
		Size:   [2]float64{w, h},
		Color:  color,
		Kind:   KindRect,
		Static: b.GetType() == cp.BODY_STATIC,
	}
}

// Remove takes the descriptor's shape and body out of space.
func Remove(space *cp.Space, d Descriptor) {
	if d.Shape != nil {
		space.RemoveShape(d.Shape)
	}
	if d.Body != nil {
		space.RemoveBody(d.Body)
	}
}

// Translate shifts a kinematic body. Its shape's bounds refresh on the
// next space step.
func Translate(d Descriptor, dx, dy float64) {
	p := d.Body.Position()
	d.Body.SetPosition(cp.Vector{X: p.X + dx, Y: p.Y + dy})
}

// Position returns the body center.
func (d Descriptor) Position() cp.Vector {
	return d.Body.Position()
}

// RightEdge is center x plus half the width.
func (d Descriptor) RightEdge() float64 {
	return d.Body.Position().X + d.Size[0]/2
}

// LeftEdge is center x minus half the width.
func (d Descriptor) LeftEdge() float64 {
	return d.Body.Position().X - d.Size[0]/2
}
