package render

import (
	"math"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/view"
)

// PreviewAlpha is the opacity of an uncommitted placement preview.
const PreviewAlpha = 0.7

// Scene is everything needed to paint one frame.
type Scene struct {
	Circuit *circuit.Circuit
	View    view.View
	Preview *circuit.Element // may be nil

	Width, Height float64 // surface size in screen pixels
	GridSize      float64 // model units; 0 means view.DefaultGridSize
	ShowGrid      bool
	HideSelection bool // exports leave out the dashed selection outlines
}

// Draw paints the scene: the grid in screen space, then the elements in
// z-order under the view transform, then the preview.
func Draw(s Surface, sc Scene) {
	if sc.ShowGrid {
		DrawGrid(s, sc.View, sc.GridSize, sc.Width, sc.Height)
	}

	zoom := sc.View.Zoom
	if zoom == 0 {
		zoom = 1
	}

	s.Save()
	s.Translate(sc.View.PanX, sc.View.PanY)
	s.Scale(zoom, zoom)

	if sc.Circuit != nil {
		for _, e := range sc.Circuit.Elements() {
			DrawElement(s, e, !sc.HideSelection)
		}
	}

	if sc.Preview != nil {
		s.Save()
		s.SetAlpha(PreviewAlpha)
		DrawElement(s, sc.Preview, !sc.HideSelection)
		s.Restore()
	}

	s.Restore()
}

// DrawGrid strokes grid lines across a w×h surface, aligned with the view.
func DrawGrid(s Surface, v view.View, grid, w, h float64) {
	if grid <= 0 {
		grid = view.DefaultGridSize
	}
	zoom := v.Zoom
	if zoom == 0 {
		zoom = 1
	}
	step := grid * zoom
	offX := math.Mod(v.PanX, step)
	offY := math.Mod(v.PanY, step)

	s.Save()
	s.SetStrokeColor(colorGrid)
	s.SetLineWidth(1)
	for x := offX; x <= w; x += step {
		s.MoveTo(x, 0)
		s.LineTo(x, h)
	}
	for y := offY; y <= h; y += step {
		s.MoveTo(0, y)
		s.LineTo(w, y)
	}
	s.Stroke()
	s.Restore()
}

// Frame is a view and surface size that fits a whole circuit.
type Frame struct {
	View          view.View
	Width, Height int
}

// FitFrame returns a zoom-1 frame that shows every element of c with pad
// pixels of margin on each side. An empty circuit gets a blank square of
// 2*pad.
func FitFrame(c *circuit.Circuit, pad float64) Frame {
	b := c.Bounds()
	if b.IsZero() {
		side := int(math.Ceil(2 * pad))
		return Frame{View: view.New(), Width: side, Height: side}
	}
	v := view.New()
	v.PanX = pad - b.X
	v.PanY = pad - b.Y
	return Frame{
		View:   v,
		Width:  int(math.Ceil(b.Width + 2*pad)),
		Height: int(math.Ceil(b.Height + 2*pad)),
	}
}
