// Raster rendering through gg, with supersampling.

package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// PNGOptions configures PNG export.
type PNGOptions struct {
	Scale    int     // supersampling factor, 1 disables it
	Padding  float64 // margin around the circuit in pixels
	GridSize float64
	ShowGrid bool
}

// DefaultPNGOptions returns sensible defaults for PNG export.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Scale:    4,
		Padding:  30,
		GridSize: 20,
		ShowGrid: false,
	}
}

var regularFont *truetype.Font

func init() {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // embedded font
	}
	regularFont = f
}

type ggState struct {
	stroke, fill color.Color
	lineWidth    float64
	dash         []float64
	alpha        float64
	scale        float64 // uniform scale of the current transform
}

// GGSurface is a Surface backed by a gg.Context.
type GGSurface struct {
	dc    *gg.Context
	cur   ggState
	stack []ggState
	faces map[float64]font.Face
}

// NewGGSurface creates a white w×h raster surface.
func NewGGSurface(w, h int) *GGSurface {
	dc := gg.NewContext(w, h)
	dc.SetColor(colorWhite)
	dc.Clear()
	return &GGSurface{
		dc: dc,
		cur: ggState{
			stroke:    color.Black,
			fill:      color.Black,
			lineWidth: 1,
			alpha:     1,
			scale:     1,
		},
		faces: make(map[float64]font.Face),
	}
}

// Image returns the pixels drawn so far.
func (g *GGSurface) Image() image.Image { return g.dc.Image() }

func (g *GGSurface) Save() {
	g.dc.Push()
	st := g.cur
	st.dash = append([]float64(nil), g.cur.dash...)
	g.stack = append(g.stack, st)
}

func (g *GGSurface) Restore() {
	if len(g.stack) == 0 {
		return
	}
	g.dc.Pop()
	g.cur = g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
}

func (g *GGSurface) Translate(x, y float64) { g.dc.Translate(x, y) }
func (g *GGSurface) Rotate(angle float64)   { g.dc.Rotate(angle) }

func (g *GGSurface) Scale(sx, sy float64) {
	g.dc.Scale(sx, sy)
	g.cur.scale *= math.Sqrt(math.Abs(sx * sy))
}

func (g *GGSurface) SetStrokeColor(c color.Color) { g.cur.stroke = c }
func (g *GGSurface) SetFillColor(c color.Color)   { g.cur.fill = c }
func (g *GGSurface) SetLineWidth(w float64)       { g.cur.lineWidth = w }
func (g *GGSurface) SetAlpha(a float64)           { g.cur.alpha = a }

func (g *GGSurface) SetDash(dashes ...float64) {
	g.cur.dash = append(g.cur.dash[:0:0], dashes...)
}

func (g *GGSurface) MoveTo(x, y float64) { g.dc.MoveTo(x, y) }
func (g *GGSurface) LineTo(x, y float64) { g.dc.LineTo(x, y) }

func (g *GGSurface) Arc(cx, cy, r, a0, a1 float64) {
	g.dc.DrawArc(cx, cy, r, a0, a1)
}

// applyStroke pushes line style into the context. gg strokes in device
// space, so widths and dashes are scaled by the current transform.
func (g *GGSurface) applyStroke() {
	g.dc.SetColor(withAlpha(g.cur.stroke, g.cur.alpha))
	g.dc.SetLineWidth(g.cur.lineWidth * g.cur.scale)
	dash := make([]float64, len(g.cur.dash))
	for i, d := range g.cur.dash {
		dash[i] = d * g.cur.scale
	}
	g.dc.SetDash(dash...)
}

func (g *GGSurface) Stroke() {
	g.applyStroke()
	g.dc.Stroke()
}

func (g *GGSurface) Fill() {
	g.dc.SetColor(withAlpha(g.cur.fill, g.cur.alpha))
	g.dc.Fill()
}

func (g *GGSurface) StrokeRect(x, y, w, h float64) {
	g.dc.NewSubPath()
	g.dc.DrawRectangle(x, y, w, h)
	g.Stroke()
}

func (g *GGSurface) FillText(text string, x, y, size float64, align Align) {
	face, ok := g.faces[size]
	if !ok {
		face = truetype.NewFace(regularFont, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		g.faces[size] = face
	}
	g.dc.SetFontFace(face)
	g.dc.SetColor(withAlpha(g.cur.fill, g.cur.alpha))
	g.dc.DrawStringAnchored(text, x, y, align.anchor(), 0)
}

// RenderPNG draws the whole circuit, fitted to its bounds, and writes it as
// PNG. The drawing is made at opts.Scale times the output size and then
// downsampled.
func RenderPNG(c *circuit.Circuit, w io.Writer, opts PNGOptions) error {
	img := RenderImage(c, opts)
	return png.Encode(w, img)
}

// RenderImage is RenderPNG without the encoding step.
func RenderImage(c *circuit.Circuit, opts PNGOptions) image.Image {
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	frame := FitFrame(c, opts.Padding)

	large := NewGGSurface(frame.Width*scale, frame.Height*scale)
	large.Scale(float64(scale), float64(scale))
	Draw(large, Scene{
		Circuit:       c,
		View:          frame.View,
		Width:         float64(frame.Width),
		Height:        float64(frame.Height),
		GridSize:      opts.GridSize,
		ShowGrid:      opts.ShowGrid,
		HideSelection: true,
	})
	if scale == 1 {
		return large.Image()
	}

	final := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	src := large.Image()
	draw.CatmullRom.Scale(final, final.Bounds(), src, src.Bounds(), draw.Over, nil)
	return final
}
