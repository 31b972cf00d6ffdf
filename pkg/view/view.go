// Package view maps pointer coordinates to model coordinates and snaps them
// to the drawing grid.
package view

import "math"

// Zoom limits and the default grid pitch in model units.
const (
	MinZoom         = 0.1
	MaxZoom         = 5.0
	DefaultGridSize = 20.0
)

// View holds the pan/zoom state of an editor canvas.
// PanX and PanY are in screen pixels.
type View struct {
	Zoom float64
	PanX float64
	PanY float64
}

// New returns a view at zoom 1 with no pan.
func New() View {
	return View{Zoom: 1}
}

// ScreenToModel converts a screen position to model coordinates.
func (v View) ScreenToModel(px, py float64) (float64, float64) {
	return (px - v.PanX) / v.zoom(), (py - v.PanY) / v.zoom()
}

// ModelToScreen converts model coordinates to a screen position.
func (v View) ModelToScreen(x, y float64) (float64, float64) {
	return x*v.zoom() + v.PanX, y*v.zoom() + v.PanY
}

// SetZoom stores z clamped to [MinZoom, MaxZoom].
// Returns true: any zoom request repaints the canvas.
func (v *View) SetZoom(z float64) bool {
	v.Zoom = clampZoom(z)
	return true
}

// ZoomBy multiplies the zoom factor by f, clamped.
func (v *View) ZoomBy(f float64) bool {
	return v.SetZoom(v.zoom() * f)
}

// Pan moves the view by (dx, dy) screen pixels.
func (v *View) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Reset restores zoom 1 and removes any pan.
func (v *View) Reset() {
	*v = New()
}

// zoom guards against the zero View.
func (v View) zoom() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return v.Zoom
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Snap rounds each coordinate to the nearest multiple of grid, halves away
// from zero. A non-positive grid selects DefaultGridSize.
func Snap(x, y, grid float64) (float64, float64) {
	return SnapValue(x, grid), SnapValue(y, grid)
}

// SnapValue snaps a single coordinate.
func SnapValue(v, grid float64) float64 {
	if grid <= 0 {
		grid = DefaultGridSize
	}
	return math.Round(v/grid) * grid
}
