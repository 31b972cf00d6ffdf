package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/fogleman/gg"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// SVGOptions configures SVG export.
type SVGOptions struct {
	Padding  float64
	GridSize float64
	ShowGrid bool
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Padding: 30, GridSize: 20}
}

type svgState struct {
	m            gg.Matrix
	stroke, fill color.Color
	lineWidth    float64
	dash         []float64
	alpha        float64
}

// SVGSurface is a Surface that writes SVG elements through svgo. Paths are
// transformed to document coordinates as they are built, so the output has
// no nested groups except around text.
type SVGSurface struct {
	canvas *svg.SVG
	cur    svgState
	stack  []svgState

	path       strings.Builder
	hasCurrent bool
}

// NewSVGSurface starts a w×h SVG document on out with a white background.
// Call End when drawing is finished.
func NewSVGSurface(out io.Writer, w, h int) *SVGSurface {
	canvas := svg.New(out)
	canvas.Start(w, h)
	canvas.Rect(0, 0, w, h, "fill:"+hexColor(colorWhite))
	return &SVGSurface{
		canvas: canvas,
		cur: svgState{
			m:         gg.Identity(),
			stroke:    color.Black,
			fill:      color.Black,
			lineWidth: 1,
			alpha:     1,
		},
	}
}

// End closes the document.
func (s *SVGSurface) End() { s.canvas.End() }

func (s *SVGSurface) Save() {
	st := s.cur
	st.dash = append([]float64(nil), s.cur.dash...)
	s.stack = append(s.stack, st)
}

func (s *SVGSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *SVGSurface) Translate(x, y float64) { s.cur.m = s.cur.m.Translate(x, y) }
func (s *SVGSurface) Rotate(angle float64)   { s.cur.m = s.cur.m.Rotate(angle) }
func (s *SVGSurface) Scale(sx, sy float64)   { s.cur.m = s.cur.m.Scale(sx, sy) }

func (s *SVGSurface) SetStrokeColor(c color.Color) { s.cur.stroke = c }
func (s *SVGSurface) SetFillColor(c color.Color)   { s.cur.fill = c }
func (s *SVGSurface) SetLineWidth(w float64)       { s.cur.lineWidth = w }
func (s *SVGSurface) SetAlpha(a float64)           { s.cur.alpha = a }

func (s *SVGSurface) SetDash(dashes ...float64) {
	s.cur.dash = append(s.cur.dash[:0:0], dashes...)
}

// scale is the uniform scale factor of the current transform.
func (s *SVGSurface) scale() float64 {
	m := s.cur.m
	return math.Sqrt(math.Abs(m.XX*m.YY - m.XY*m.YX))
}

func (s *SVGSurface) MoveTo(x, y float64) {
	px, py := s.cur.m.TransformPoint(x, y)
	fmt.Fprintf(&s.path, "M%s %s ", num(px), num(py))
	s.hasCurrent = true
}

func (s *SVGSurface) LineTo(x, y float64) {
	if !s.hasCurrent {
		s.MoveTo(x, y)
		return
	}
	px, py := s.cur.m.TransformPoint(x, y)
	fmt.Fprintf(&s.path, "L%s %s ", num(px), num(py))
}

func (s *SVGSurface) Arc(cx, cy, r, a0, a1 float64) {
	sx, sy := cx+r*math.Cos(a0), cy+r*math.Sin(a0)
	if s.hasCurrent {
		s.LineTo(sx, sy)
	} else {
		s.MoveTo(sx, sy)
	}

	sweep := a1 - a0
	if math.Abs(sweep) >= 2*math.Pi-1e-9 {
		// an SVG arc cannot start and end at the same point
		mid := a0 + sweep/2
		s.arcSegment(cx, cy, r, a0, mid)
		s.arcSegment(cx, cy, r, mid, a1)
		return
	}
	s.arcSegment(cx, cy, r, a0, a1)
}

func (s *SVGSurface) arcSegment(cx, cy, r, a0, a1 float64) {
	m := s.cur.m
	ex, ey := m.TransformPoint(cx+r*math.Cos(a1), cy+r*math.Sin(a1))
	rr := r * s.scale()

	large := 0
	if math.Abs(a1-a0) > math.Pi {
		large = 1
	}
	sweep := 0
	if a1 > a0 {
		sweep = 1
	}
	if m.XX*m.YY-m.XY*m.YX < 0 {
		sweep = 1 - sweep
	}
	fmt.Fprintf(&s.path, "A%s %s 0 %d %d %s %s ", num(rr), num(rr), large, sweep, num(ex), num(ey))
}

func (s *SVGSurface) takePath() string {
	d := strings.TrimSpace(s.path.String())
	s.path.Reset()
	s.hasCurrent = false
	return d
}

func (s *SVGSurface) strokeStyle() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fill:none;stroke:%s;stroke-width:%s;stroke-linecap:butt",
		hexColor(s.cur.stroke), num(s.cur.lineWidth*s.scale()))
	if len(s.cur.dash) > 0 {
		parts := make([]string, len(s.cur.dash))
		for i, d := range s.cur.dash {
			parts[i] = num(d * s.scale())
		}
		fmt.Fprintf(&sb, ";stroke-dasharray:%s", strings.Join(parts, ","))
	}
	if s.cur.alpha < 1 {
		fmt.Fprintf(&sb, ";opacity:%s", num(s.cur.alpha))
	}
	return sb.String()
}

func (s *SVGSurface) fillStyle() string {
	style := "stroke:none;fill:" + hexColor(s.cur.fill)
	if s.cur.alpha < 1 {
		style += ";opacity:" + num(s.cur.alpha)
	}
	return style
}

func (s *SVGSurface) Stroke() {
	if d := s.takePath(); d != "" {
		s.canvas.Path(d, s.strokeStyle())
	}
}

func (s *SVGSurface) Fill() {
	if d := s.takePath(); d != "" {
		s.canvas.Path(d+" Z", s.fillStyle())
	}
}

func (s *SVGSurface) StrokeRect(x, y, w, h float64) {
	s.takePath()
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	d := s.takePath() + " Z"
	s.canvas.Path(d, s.strokeStyle())
}

// FillText places text in local coordinates inside a group carrying the
// current transform, so rotated elements keep rotated labels.
func (s *SVGSurface) FillText(text string, x, y, size float64, align Align) {
	m := s.cur.m
	s.canvas.Gtransform(fmt.Sprintf("matrix(%s %s %s %s %s %s)",
		num(m.XX), num(m.YX), num(m.XY), num(m.YY), num(m.X0), num(m.Y0)))

	anchor := "start"
	switch align {
	case AlignCenter:
		anchor = "middle"
	case AlignRight:
		anchor = "end"
	}
	style := fmt.Sprintf("font-family:sans-serif;font-size:%spx;text-anchor:%s;fill:%s",
		num(size), anchor, hexColor(s.cur.fill))
	if s.cur.alpha < 1 {
		style += ";opacity:" + num(s.cur.alpha)
	}
	s.canvas.Text(int(math.Round(x)), int(math.Round(y)), text, style)
	s.canvas.Gend()
}

// RenderSVG draws the whole circuit, fitted to its bounds, as an SVG
// document.
func RenderSVG(c *circuit.Circuit, w io.Writer, opts SVGOptions) error {
	var buf bytes.Buffer
	frame := FitFrame(c, opts.Padding)
	s := NewSVGSurface(&buf, frame.Width, frame.Height)
	Draw(s, Scene{
		Circuit:       c,
		View:          frame.View,
		Width:         float64(frame.Width),
		Height:        float64(frame.Height),
		GridSize:      opts.GridSize,
		ShowGrid:      opts.ShowGrid,
		HideSelection: true,
	})
	s.End()
	_, err := w.Write(buf.Bytes())
	return err
}

// hexColor formats c as #rrggbb, ignoring alpha.
func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
