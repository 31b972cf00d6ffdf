package render

import (
	"fmt"
	"image/color"
	"strings"
)

// Op is one recorded Surface call.
type Op struct {
	Name  string
	Args  []float64
	Text  string      // FillText only
	Color color.Color // SetStrokeColor and SetFillColor only
}

func (o Op) String() string {
	var sb strings.Builder
	sb.WriteString(o.Name)
	if o.Text != "" {
		fmt.Fprintf(&sb, " %q", o.Text)
	}
	for _, a := range o.Args {
		fmt.Fprintf(&sb, " %g", a)
	}
	if o.Color != nil {
		fmt.Fprintf(&sb, " %s", hexColor(o.Color))
	}
	return sb.String()
}

// Recorder is a Surface that keeps a log of every call instead of drawing.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) add(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func (r *Recorder) Save()    { r.add("Save") }
func (r *Recorder) Restore() { r.add("Restore") }

func (r *Recorder) Translate(x, y float64) { r.add("Translate", x, y) }
func (r *Recorder) Rotate(angle float64)   { r.add("Rotate", angle) }
func (r *Recorder) Scale(sx, sy float64)   { r.add("Scale", sx, sy) }

func (r *Recorder) SetStrokeColor(c color.Color) {
	r.Ops = append(r.Ops, Op{Name: "SetStrokeColor", Color: c})
}

func (r *Recorder) SetFillColor(c color.Color) {
	r.Ops = append(r.Ops, Op{Name: "SetFillColor", Color: c})
}

func (r *Recorder) SetLineWidth(w float64)    { r.add("SetLineWidth", w) }
func (r *Recorder) SetDash(dashes ...float64) { r.add("SetDash", dashes...) }
func (r *Recorder) SetAlpha(a float64)        { r.add("SetAlpha", a) }

func (r *Recorder) MoveTo(x, y float64) { r.add("MoveTo", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add("LineTo", x, y) }
func (r *Recorder) Arc(cx, cy, rad, a0, a1 float64) {
	r.add("Arc", cx, cy, rad, a0, a1)
}
func (r *Recorder) Stroke() { r.add("Stroke") }
func (r *Recorder) Fill()   { r.add("Fill") }

func (r *Recorder) StrokeRect(x, y, w, h float64) { r.add("StrokeRect", x, y, w, h) }

func (r *Recorder) FillText(text string, x, y, size float64, align Align) {
	r.Ops = append(r.Ops, Op{Name: "FillText", Text: text, Args: []float64{x, y, size, float64(align)}})
}

// Count returns how many recorded ops are named name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Find returns the first op named name, or false.
func (r *Recorder) Find(name string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Name == name {
			return op, true
		}
	}
	return Op{}, false
}

// Reset drops every recorded op.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }
