package main

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/circuit-toolkit/pkg/render"
)

// One terminal cell covers CellW×CellH screen pixels of the canvas.
const (
	CellW = 10.0
	CellH = 20.0
)

// arcSegments is how many straight pieces approximate a full circle.
const arcSegments = 24

// cellSetter is the part of tcell.Screen the cell surface draws with.
type cellSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

type cellState struct {
	m            gg.Matrix
	stroke, fill color.Color
	alpha        float64
	dashed       bool
}

type point struct{ x, y float64 }

// cellSurface is a render.Surface that rasterizes onto terminal cells.
// Screen pixels map to cells through CellW and CellH; line direction picks
// the box-drawing rune.
type cellSurface struct {
	out        cellSetter
	cols, rows int
	styleFor   func(c color.Color, alpha float64) tcell.Style

	cur   cellState
	stack []cellState

	subpaths [][]point // screen pixels
}

func newCellSurface(out cellSetter, cols, rows int, styleFor func(color.Color, float64) tcell.Style) *cellSurface {
	return &cellSurface{
		out:      out,
		cols:     cols,
		rows:     rows,
		styleFor: styleFor,
		cur: cellState{
			m:      gg.Identity(),
			stroke: color.Black,
			fill:   color.Black,
			alpha:  1,
		},
	}
}

func (s *cellSurface) Save() { s.stack = append(s.stack, s.cur) }

func (s *cellSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *cellSurface) Translate(x, y float64) { s.cur.m = s.cur.m.Translate(x, y) }
func (s *cellSurface) Rotate(angle float64)   { s.cur.m = s.cur.m.Rotate(angle) }
func (s *cellSurface) Scale(sx, sy float64)   { s.cur.m = s.cur.m.Scale(sx, sy) }

func (s *cellSurface) SetStrokeColor(c color.Color) { s.cur.stroke = c }
func (s *cellSurface) SetFillColor(c color.Color)   { s.cur.fill = c }
func (s *cellSurface) SetLineWidth(w float64)       {}
func (s *cellSurface) SetDash(dashes ...float64)    { s.cur.dashed = len(dashes) > 0 }
func (s *cellSurface) SetAlpha(a float64)           { s.cur.alpha = a }

func (s *cellSurface) MoveTo(x, y float64) {
	px, py := s.cur.m.TransformPoint(x, y)
	s.subpaths = append(s.subpaths, []point{{px, py}})
}

func (s *cellSurface) LineTo(x, y float64) {
	if len(s.subpaths) == 0 {
		s.MoveTo(x, y)
		return
	}
	px, py := s.cur.m.TransformPoint(x, y)
	last := &s.subpaths[len(s.subpaths)-1]
	*last = append(*last, point{px, py})
}

func (s *cellSurface) Arc(cx, cy, r, a0, a1 float64) {
	n := int(math.Ceil(math.Abs(a1-a0) / (2 * math.Pi) * arcSegments))
	if n < 2 {
		n = 2
	}
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 && len(s.subpaths) == 0 {
			s.MoveTo(x, y)
			continue
		}
		s.LineTo(x, y)
	}
}

func (s *cellSurface) Stroke() {
	style := s.styleFor(s.cur.stroke, s.cur.alpha)
	for _, sp := range s.subpaths {
		for i := 1; i < len(sp); i++ {
			s.line(sp[i-1], sp[i], style)
		}
	}
	s.subpaths = nil
}

// Fill marks the centre of the filled area; cells are too coarse for more.
func (s *cellSurface) Fill() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sp := range s.subpaths {
		for _, p := range sp {
			minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
			minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
		}
	}
	s.subpaths = nil
	if math.IsInf(minX, 0) {
		return
	}
	col, row := cellOf((minX+maxX)/2, (minY+maxY)/2)
	s.set(col, row, '●', s.styleFor(s.cur.fill, s.cur.alpha))
}

func (s *cellSurface) StrokeRect(x, y, w, h float64) {
	s.subpaths = nil
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.LineTo(x, y)
	s.Stroke()
}

func (s *cellSurface) FillText(text string, x, y, size float64, align render.Align) {
	px, py := s.cur.m.TransformPoint(x, y)
	runes := []rune(text)
	col, row := cellOf(px, py-CellH/2)
	switch align {
	case render.AlignCenter:
		col -= len(runes) / 2
	case render.AlignRight:
		col -= len(runes)
	}
	style := s.styleFor(s.cur.fill, s.cur.alpha)
	for i, r := range runes {
		s.set(col+i, row, r, style)
	}
}

// line walks the cells between a and b.
func (s *cellSurface) line(a, b point, style tcell.Style) {
	r := lineRune(b.x-a.x, b.y-a.y, s.cur.dashed)
	ac, ar := a.x/CellW, a.y/CellH
	bc, br := b.x/CellW, b.y/CellH
	steps := int(math.Ceil(math.Max(math.Abs(bc-ac), math.Abs(br-ar))*2)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col := int(math.Floor(ac + (bc-ac)*t))
		row := int(math.Floor(ar + (br-ar)*t))
		s.set(col, row, r, style)
	}
}

// lineRune picks a box-drawing rune for a segment with pixel deltas dx, dy.
func lineRune(dx, dy float64, dashed bool) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay <= ax*math.Tan(math.Pi/8):
		if dashed {
			return '┄'
		}
		return '─'
	case ax <= ay*math.Tan(math.Pi/8):
		if dashed {
			return '┆'
		}
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	}
	return '╱'
}

func cellOf(px, py float64) (int, int) {
	return int(math.Floor(px / CellW)), int(math.Floor(py / CellH))
}

func (s *cellSurface) set(col, row int, r rune, style tcell.Style) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return
	}
	s.out.SetContent(col, row, r, nil, style)
}
