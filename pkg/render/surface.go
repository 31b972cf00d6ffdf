// Package render draws circuits onto 2D surfaces.
//
// The drawing code only talks to the Surface interface. Implementations
// exist for PNG images (gg), SVG documents (svgo) and an in-memory Recorder
// used by tests.
package render

import "image/color"

// Align is the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// anchor returns the fraction of the text width left of the anchor point.
func (a Align) anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	}
	return 0
}

// Surface is a canvas-style drawing target.
//
// Coordinates pass through the current transform. Save and Restore push and
// pop the transform together with every style setting. Stroke and Fill
// consume the current path. Arc sweeps from angle a0 to a1 in radians
// (increasing angles turn clockwise on screen) and, when a path is open,
// first draws a line from the current point to the start of the arc.
type Surface interface {
	Save()
	Restore()

	Translate(x, y float64)
	Rotate(angle float64)
	Scale(sx, sy float64)

	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)
	SetLineWidth(w float64)
	SetDash(dashes ...float64)
	SetAlpha(a float64)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(cx, cy, r, a0, a1 float64)
	Stroke()
	Fill()

	StrokeRect(x, y, w, h float64)
	FillText(text string, x, y, size float64, align Align)
}

// Colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorInk       = color.RGBA{51, 51, 51, 255}    // #333
	colorSelection = color.RGBA{37, 99, 235, 255}   // #2563eb
	colorGrid      = color.RGBA{240, 240, 240, 255} // #f0f0f0
)

// withAlpha scales the opacity of c by a.
func withAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if a < 1 {
		n.A = uint8(float64(n.A)*a + 0.5)
	}
	return n
}
