package body

// Viewport is the drawable area in world units. The navbar strip at the top
// of the screen is not part of the playfield.
type Viewport struct {
	Width  float64
	Height float64
	Navbar float64
}

// GameHeight is the playable height.
func (v Viewport) GameHeight() float64 {
	return v.Height - v.Navbar
}

func (v Viewport) Landscape() bool {
	return v.Width > v.Height
}

func (v Viewport) Orientation() string {
	if v.Landscape() {
		return "landscape"
	}
	return "portrait"
}

// Coords carries optional explicit coordinates; unset axes fall back to the
// factory defaults.
type Coords struct {
	X, Y       float64
	HasX, HasY bool
}

func At(x, y float64) Coords {
	return Coords{X: x, Y: y, HasX: true, HasY: true}
}

func AtX(x float64) Coords {
	return Coords{X: x, HasX: true}
}
