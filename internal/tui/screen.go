// Package tui draws the world into a terminal and turns key presses into
// session input.
package tui

import (
	"fmt"
	"math"

	"github.com/flappyball/core/internal/body"
	"github.com/flappyball/core/internal/core/ecs"
	"github.com/flappyball/core/internal/world"
	"github.com/gdamore/tcell/v2"
)

// One terminal cell covers CellWidth×CellHeight world units. Cells are about
// twice as tall as they are wide.
const (
	CellWidth  = 10.0
	CellHeight = 20.0
)

// ViewportFor maps a terminal size to world units. The top row is the
// status bar and is not part of the playfield.
func ViewportFor(cols, rows int) body.Viewport {
	return body.Viewport{
		Width:  float64(cols) * CellWidth,
		Height: float64(rows) * CellHeight,
		Navbar: CellHeight,
	}
}

var palette = map[string]tcell.Color{
	"red":   tcell.ColorRed,
	"green": tcell.ColorGreen,
	"brown": tcell.ColorOlive,
	"black": tcell.ColorGray,
}

// Screen renders snapshots with tcell.
type Screen struct {
	screen   tcell.Screen
	codeName string
	best     int
}

func NewScreen(screen tcell.Screen, codeName string) *Screen {
	return &Screen{screen: screen, codeName: codeName}
}

// SetBest shows a previously recorded best score in the status bar.
func (s *Screen) SetBest(best int) {
	s.best = best
}

func (s *Screen) Render(snap *world.Snapshot) {
	s.screen.Clear()

	s.fill(snap.Roof, '▀')
	s.fill(snap.Floor, '▄')
	snap.Obstacles.Each(func(_ ecs.EntityID, o *world.Obstacle) {
		s.fill(o.Descriptor, '█')
	})
	s.player(snap.Player)
	s.status(snap)

	s.screen.Show()
}

// fill paints every cell whose center lies inside d's box.
func (s *Screen) fill(d body.Descriptor, r rune) {
	p := d.Position()
	x0, x1 := p.X-d.Size[0]/2, p.X+d.Size[0]/2
	y0, y1 := p.Y-d.Size[1]/2, p.Y+d.Size[1]/2
	style := tcell.StyleDefault.Foreground(palette[d.Color])

	cols, rows := s.screen.Size()
	for cy := 1; cy < rows; cy++ {
		wy := float64(cy-1)*CellHeight + CellHeight/2
		if wy < y0 || wy > y1 {
			continue
		}
		for cx := 0; cx < cols; cx++ {
			wx := float64(cx)*CellWidth + CellWidth/2
			if wx < x0 || wx > x1 {
				continue
			}
			s.screen.SetContent(cx, cy, r, nil, style)
		}
	}
}

func (s *Screen) player(d body.Descriptor) {
	p := d.Position()
	cx := int(math.Floor(p.X / CellWidth))
	cy := int(math.Floor(p.Y/CellHeight)) + 1
	style := tcell.StyleDefault.Foreground(palette[d.Color]).Bold(true)
	s.screen.SetContent(cx, cy, '●', nil, style)
}

func (s *Screen) status(snap *world.Snapshot) {
	line := fmt.Sprintf(" %s  score %d  best %d", s.codeName, snap.Score, max(s.best, snap.Score))
	switch {
	case snap.GameOver:
		line += "  GAME OVER  [r] again  [q] quit"
	case snap.Paused:
		line += "  PAUSED  [space] fly  [p] resume  [q] quit"
	}
	style := tcell.StyleDefault.Reverse(true)
	cols, _ := s.screen.Size()
	runes := []rune(line)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		s.screen.SetContent(x, 0, r, nil, style)
	}
}
