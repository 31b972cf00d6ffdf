package editor

import (
	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/view"
)

// dragSession moves one element while the primary button is held.
type dragSession struct {
	element *circuit.Element
	offset  circuit.Point // pointer minus element origin at press time
}

// pick selects the element under the pointer and starts dragging it, or
// clears the selection when the pointer hits empty canvas.
func (ed *Editor) pick(sx, sy float64, multi bool) {
	x, y := ed.view.ScreenToModel(sx, sy)
	e := ed.circuit.ElementAt(x, y)
	if e == nil {
		ed.circuit.ClearSelection()
		ed.drag = nil
		ed.requestRedraw()
		return
	}

	ed.circuit.Select(e, multi)
	ed.drag = &dragSession{
		element: e,
		offset:  circuit.Point{X: x - e.X, Y: y - e.Y},
	}
	ed.debug("drag start", "element", e.ID)
	ed.requestRedraw()
}

// dragTo moves the dragged element so that the press offset is preserved,
// snapping the new origin to the grid.
func (ed *Editor) dragTo(sx, sy float64) {
	d := ed.drag
	if !ed.circuit.Contains(d.element) {
		ed.drag = nil
		return
	}
	x, y := ed.view.ScreenToModel(sx, sy)
	nx, ny := view.Snap(x-d.offset.X, y-d.offset.Y, ed.grid)
	if nx == d.element.X && ny == d.element.Y {
		return
	}
	d.element.X = nx
	d.element.Y = ny
	ed.requestRedraw()
}
