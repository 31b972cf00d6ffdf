// Package editor interprets pointer and keyboard gestures against a circuit.
//
// An Editor owns one circuit and one view. Every method runs synchronously
// and must be called from a single goroutine, normally the host UI's event
// loop. Methods never draw; they set a redraw request that the host collects
// with TakeRedraw.
package editor

import (
	"context"
	"io"
	"log/slog"
	"math"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/markup"
	"github.com/ha1tch/circuit-toolkit/pkg/view"
)

// State is the placement state of the editor.
type State int

const (
	StateIdle         State = iota // no tool: pointer gestures select and drag
	StateToolSelected              // a tool is armed
	StatePlacingPath               // first click of a path component placed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateToolSelected:
		return "tool"
	case StatePlacingPath:
		return "placing"
	}
	return "unknown"
}

// Zoom steps used by the zoom controls and the mouse wheel.
const (
	ZoomStep     = 1.2
	WheelZoomIn  = 1.1
	WheelZoomOut = 0.9
	QuarterTurn  = math.Pi / 2
)

// PlacementSession tracks a path component between its first and second click.
type PlacementSession struct {
	Kind    *circuit.Kind
	Anchor  circuit.Point    // snapped first click
	Preview *circuit.Element // not yet part of the circuit
}

// Editor is one authoring session.
type Editor struct {
	circuit *circuit.Circuit
	view    view.View
	grid    float64
	log     *slog.Logger

	tool      *circuit.Kind
	placement *PlacementSession // only set while tool is a path kind
	drag      *dragSession

	redraw bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithGridSize sets the snapping grid pitch in model units.
func WithGridSize(g float64) Option {
	return func(ed *Editor) {
		if g > 0 {
			ed.grid = g
		}
	}
}

// WithLogger routes debug records about gestures to l.
func WithLogger(l *slog.Logger) Option {
	return func(ed *Editor) {
		if l != nil {
			ed.log = l
		}
	}
}

// WithCircuit makes the editor operate on an existing circuit.
func WithCircuit(c *circuit.Circuit) Option {
	return func(ed *Editor) {
		if c != nil {
			ed.circuit = c
		}
	}
}

// New creates an editor with an empty circuit and an identity view.
func New(opts ...Option) *Editor {
	ed := &Editor{
		circuit: circuit.New(),
		view:    view.New(),
		grid:    view.DefaultGridSize,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ed)
	}
	return ed
}

// Circuit returns the circuit being edited.
func (ed *Editor) Circuit() *circuit.Circuit { return ed.circuit }

// View returns a copy of the current view transform.
func (ed *Editor) View() view.View { return ed.view }

// GridSize returns the snapping grid pitch.
func (ed *Editor) GridSize() float64 { return ed.grid }

// Tool returns the armed kind, or nil.
func (ed *Editor) Tool() *circuit.Kind { return ed.tool }

// Placement returns the open placement session, or nil.
func (ed *Editor) Placement() *PlacementSession { return ed.placement }

// Preview returns the uncommitted element being placed, or nil.
func (ed *Editor) Preview() *circuit.Element {
	if ed.placement == nil {
		return nil
	}
	return ed.placement.Preview
}

// Dragging returns true while an element is being dragged.
func (ed *Editor) Dragging() bool { return ed.drag != nil }

// State returns the placement state.
func (ed *Editor) State() State {
	switch {
	case ed.placement != nil:
		return StatePlacingPath
	case ed.tool != nil:
		return StateToolSelected
	}
	return StateIdle
}

// TakeRedraw reports whether anything changed since the last call and
// resets the request.
func (ed *Editor) TakeRedraw() bool {
	r := ed.redraw
	ed.redraw = false
	return r
}

func (ed *Editor) requestRedraw() {
	ed.redraw = true
}

// SelectTool arms the tool for kind id, discarding any placement preview.
// An unknown id leaves the editor unchanged.
func (ed *Editor) SelectTool(id string) error {
	k, err := circuit.Lookup(id)
	if err != nil {
		return err
	}
	ed.placement = nil
	ed.drag = nil
	ed.tool = k
	ed.debug("tool selected", "kind", k.ID)
	ed.requestRedraw()
	return nil
}

// Escape cancels any placement, disarms the tool and clears the selection.
func (ed *Editor) Escape() {
	ed.placement = nil
	ed.tool = nil
	ed.drag = nil
	ed.circuit.ClearSelection()
	ed.debug("escape")
	ed.requestRedraw()
}

// PointerDown handles a primary button press at screen position (sx, sy).
// With a tool armed it is a placement click; otherwise it selects and
// starts dragging whatever is under the pointer. multi is the additive
// selection modifier.
func (ed *Editor) PointerDown(sx, sy float64, multi bool) {
	if ed.tool != nil {
		ed.click(sx, sy)
		return
	}
	ed.pick(sx, sy, multi)
}

// PointerMove handles pointer motion. It stretches the placement preview
// or moves the dragged element; otherwise it does nothing.
func (ed *Editor) PointerMove(sx, sy float64) {
	switch {
	case ed.drag != nil:
		ed.dragTo(sx, sy)
	case ed.placement != nil:
		p := ed.snapped(sx, sy)
		ed.placement.resize(p)
		ed.requestRedraw()
	default:
		ed.debug("ignored gesture", "gesture", "move")
	}
}

// PointerUp ends a drag.
func (ed *Editor) PointerUp() {
	if ed.drag == nil {
		return
	}
	ed.debug("drag end", "element", ed.drag.element.ID)
	ed.drag = nil
}

// click runs one placement step for the armed tool.
func (ed *Editor) click(sx, sy float64) {
	p := ed.snapped(sx, sy)
	k := ed.tool

	if k.IsPoint() {
		e := circuit.NewElement(k, p.X, p.Y)
		ed.commit(e)
		return
	}

	if ed.placement == nil {
		ed.placement = &PlacementSession{
			Kind:    k,
			Anchor:  p,
			Preview: circuit.NewElement(k, p.X, p.Y),
		}
		ed.debug("placement started", "kind", k.ID, "x", p.X, "y", p.Y)
		ed.requestRedraw()
		return
	}

	e := ed.placement.Preview
	ed.placement.resize(p)
	ed.placement = nil
	ed.commit(e)
}

func (ed *Editor) commit(e *circuit.Element) {
	ed.circuit.Add(e)
	ed.circuit.Select(e, false)
	ed.debug("element placed", "kind", e.Kind.ID, "id", e.ID,
		"x", e.X, "y", e.Y, "width", e.Width)
	ed.requestRedraw()
}

// resize recomputes the preview extent for the snapped pointer p.
// Path components stay horizontal whichever way the pointer moved and are
// never shorter than the kind's default width.
func (s *PlacementSession) resize(p circuit.Point) {
	dx := p.X - s.Anchor.X
	s.Preview.Width = math.Max(math.Abs(dx), s.Kind.Width)
	s.Preview.Height = s.Kind.Height
}

// snapped converts a screen position to a grid-snapped model point.
func (ed *Editor) snapped(sx, sy float64) circuit.Point {
	x, y := ed.view.ScreenToModel(sx, sy)
	x, y = view.Snap(x, y, ed.grid)
	return circuit.Point{X: x, Y: y}
}

// DeleteSelected removes the selected elements.
func (ed *Editor) DeleteSelected() {
	if len(ed.circuit.Selection()) == 0 {
		return
	}
	if ed.drag != nil && ed.drag.element.Selected {
		ed.drag = nil
	}
	ed.circuit.DeleteSelected()
	ed.requestRedraw()
}

// SelectAll selects every element.
func (ed *Editor) SelectAll() {
	ed.circuit.SelectAll()
	ed.requestRedraw()
}

// Clear removes every element and cancels any gesture in progress.
// The armed tool stays armed.
func (ed *Editor) Clear() {
	ed.circuit.Clear()
	ed.drag = nil
	ed.placement = nil
	ed.requestRedraw()
}

// SetLabel sets the label of every selected element.
func (ed *Editor) SetLabel(label string) int {
	sel := ed.circuit.Selection()
	for _, e := range sel {
		e.Label = label
	}
	if len(sel) > 0 {
		ed.requestRedraw()
	}
	return len(sel)
}

// SetValue sets the value text of every selected element.
func (ed *Editor) SetValue(value string) int {
	sel := ed.circuit.Selection()
	for _, e := range sel {
		e.Value = value
	}
	if len(sel) > 0 {
		ed.requestRedraw()
	}
	return len(sel)
}

// RotateSelected adds a quarter turn to every selected element.
// Rotation only affects drawing; markup and hit-testing ignore it.
func (ed *Editor) RotateSelected() int {
	sel := ed.circuit.Selection()
	for _, e := range sel {
		e.Rotation = math.Mod(e.Rotation+QuarterTurn, 2*math.Pi)
	}
	if len(sel) > 0 {
		ed.requestRedraw()
	}
	return len(sel)
}

// SetZoom sets the zoom factor, clamped to the view limits.
func (ed *Editor) SetZoom(z float64) {
	if ed.view.SetZoom(z) {
		ed.requestRedraw()
	}
}

// ZoomIn zooms in one step.
func (ed *Editor) ZoomIn() { ed.SetZoom(ed.view.Zoom * ZoomStep) }

// ZoomOut zooms out one step.
func (ed *Editor) ZoomOut() { ed.SetZoom(ed.view.Zoom / ZoomStep) }

// ResetView restores zoom 1 and removes the pan.
func (ed *Editor) ResetView() {
	ed.view.Reset()
	ed.requestRedraw()
}

// Pan scrolls the view by (dx, dy) screen pixels.
func (ed *Editor) Pan(dx, dy float64) {
	ed.view.Pan(dx, dy)
	ed.requestRedraw()
}

// Wheel handles a scroll gesture. With the zoom modifier held the vertical
// delta zooms; otherwise both deltas pan the view.
func (ed *Editor) Wheel(dx, dy float64, zoom bool) {
	if zoom {
		f := WheelZoomIn
		if dy > 0 {
			f = WheelZoomOut
		}
		ed.SetZoom(ed.view.Zoom * f)
		return
	}
	ed.Pan(-dx, -dy)
}

// ZoomPercent returns the zoom factor as a whole percentage for display.
func (ed *Editor) ZoomPercent() int {
	return int(math.Round(ed.view.Zoom * 100))
}

// Export returns the circuitikz markup for the circuit.
func (ed *Editor) Export() string {
	opts := markup.DefaultOptions()
	opts.GridSize = ed.grid
	return markup.Generate(ed.circuit, opts)
}

func (ed *Editor) debug(msg string, args ...any) {
	args = append(args, "state", ed.State().String())
	ed.log.Log(context.Background(), slog.LevelDebug, msg, args...)
}
