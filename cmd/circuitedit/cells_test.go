package main

import (
	"image/color"
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/render"
	"github.com/ha1tch/circuit-toolkit/pkg/view"
)

type cell struct{ col, row int }

// grid records SetContent calls.
type grid map[cell]rune

func (g grid) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	g[cell{x, y}] = r
}

func plainStyle(color.Color, float64) tcell.Style { return tcell.StyleDefault }

func TestLineRune(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		dashed bool
		want   rune
	}{
		{"east", 10, 0, false, '─'},
		{"west", -10, 1, false, '─'},
		{"south", 0, 10, false, '│'},
		{"north", 1, -10, false, '│'},
		{"down-right", 10, 10, false, '╲'},
		{"up-left", -10, -10, false, '╲'},
		{"up-right", 10, -10, false, '╱'},
		{"down-left", -10, 10, false, '╱'},
		{"dashed horizontal", 10, 0, true, '┄'},
		{"dashed vertical", 0, 10, true, '┆'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lineRune(tt.dx, tt.dy, tt.dashed); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCellSurfaceStroke(t *testing.T) {
	g := grid{}
	s := newCellSurface(g, 20, 10, plainStyle)
	s.MoveTo(0, 30)
	s.LineTo(100, 30)
	s.Stroke()

	for col := 0; col <= 9; col++ {
		if g[cell{col, 1}] != '─' {
			t.Errorf("cell %d,1 = %q, want ─", col, g[cell{col, 1}])
		}
	}
	if len(s.subpaths) != 0 {
		t.Error("Stroke did not consume the path")
	}
}

func TestCellSurfaceClips(t *testing.T) {
	g := grid{}
	s := newCellSurface(g, 5, 5, plainStyle)
	s.MoveTo(-100, 10)
	s.LineTo(500, 10)
	s.Stroke()
	for c := range g {
		if c.col < 0 || c.col >= 5 || c.row < 0 || c.row >= 5 {
			t.Errorf("drew outside the surface at %v", c)
		}
	}
	if len(g) != 5 {
		t.Errorf("got %d cells, want 5", len(g))
	}
}

func TestCellSurfaceTransform(t *testing.T) {
	g := grid{}
	s := newCellSurface(g, 40, 20, plainStyle)
	s.Save()
	s.Translate(100, 100)
	s.Rotate(math.Pi / 2)
	s.MoveTo(0, 0)
	s.LineTo(60, 0) // rotated onto the vertical
	s.Stroke()
	s.Restore()

	if g[cell{10, 6}] != '│' {
		t.Errorf("cell 10,6 = %q, want │", g[cell{10, 6}])
	}

	// Restore brings back the identity transform.
	s.FillText("ab", 0, 30, 12, render.AlignLeft)
	if g[cell{0, 1}] != 'a' || g[cell{1, 1}] != 'b' {
		t.Errorf("text not at the origin: %q %q", g[cell{0, 1}], g[cell{1, 1}])
	}
}

func TestCellSurfaceTextAlign(t *testing.T) {
	g := grid{}
	s := newCellSurface(g, 40, 10, plainStyle)
	s.FillText("abcd", 100, 30, 12, render.AlignCenter)
	if g[cell{8, 1}] != 'a' || g[cell{11, 1}] != 'd' {
		t.Errorf("centred text misplaced: %v", g)
	}
}

func TestCellSurfaceFill(t *testing.T) {
	g := grid{}
	s := newCellSurface(g, 10, 10, plainStyle)
	s.MoveTo(48, 50)
	s.Arc(40, 50, 8, 0, 2*math.Pi)
	s.Fill()
	if len(g) != 1 || g[cell{4, 2}] != '●' {
		t.Errorf("fill = %v, want one dot at 4,2", g)
	}
}

func TestCellSurfaceDrawsScene(t *testing.T) {
	c := circuit.New()
	k, err := circuit.Lookup(circuit.KindResistor)
	if err != nil {
		t.Fatal(err)
	}
	c.Add(circuit.NewElement(k, 20, 40))

	g := grid{}
	s := newCellSurface(g, 40, 10, plainStyle)
	render.Draw(s, render.Scene{Circuit: c, View: view.New(), Width: 400, Height: 200})
	if len(g) == 0 {
		t.Fatal("scene drew nothing")
	}
	// Left terminal lead of the resistor.
	if g[cell{2, 2}] != '─' {
		t.Errorf("cell 2,2 = %q, want a lead", g[cell{2, 2}])
	}
}
