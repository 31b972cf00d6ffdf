package circuit

import "github.com/google/uuid"

// Element is a placed instance of a catalog kind.
//
// Width and Height start at the kind's defaults and may diverge from them:
// path components are stretched while they are being placed. Rotation is a
// rendering transform only; Bounds and Terminals ignore it.
type Element struct {
	ID       string
	Kind     *Kind
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64 // radians
	Label    string
	Value    string
	Selected bool
}

// NewElement creates an unselected element of kind k at (x, y).
func NewElement(k *Kind, x, y float64) *Element {
	return &Element{
		ID:     uuid.NewString(),
		Kind:   k,
		X:      x,
		Y:      y,
		Width:  k.Width,
		Height: k.Height,
	}
}

// Position returns the element origin.
func (e *Element) Position() Point {
	return Point{e.X, e.Y}
}

// Bounds returns the unrotated axis-aligned box of the element.
func (e *Element) Bounds() Rect {
	return Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// ContainsPoint reports whether (px, py) lies within Bounds, edges included.
func (e *Element) ContainsPoint(px, py float64) bool {
	return e.Bounds().Contains(px, py)
}

// Terminals returns the kind's terminal offsets translated to world space.
func (e *Element) Terminals() []Point {
	out := make([]Point, len(e.Kind.Terminals))
	for i, t := range e.Kind.Terminals {
		out[i] = Point{e.X + t.X, e.Y + t.Y}
	}
	return out
}
