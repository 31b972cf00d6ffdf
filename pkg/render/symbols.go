package render

import (
	"math"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// Drawing constants shared by every symbol.
const (
	SymbolLineWidth = 2.0
	LabelSize       = 12.0
	SignSize        = 14.0
	SelectionOutset = 5.0
	LabelOffset     = -8.0 // baseline of the label, above the symbol
	ValueOffset     = 20.0 // baseline of the value, below the symbol
)

// symbolFunc draws one kind in element-local coordinates: the symbol spans
// (0,0) to (w,h) with its terminals on the horizontal centre line.
type symbolFunc func(s Surface, w, h float64)

var symbols = map[string]symbolFunc{
	circuit.KindResistor:  drawResistor,
	circuit.KindCapacitor: drawCapacitor,
	circuit.KindInductor:  drawInductor,
	circuit.KindVoltage:   drawVoltageSource,
	circuit.KindCurrent:   drawCurrentSource,
	circuit.KindGround:    drawGround,
	circuit.KindWire:      drawWire,
	circuit.KindNode:      drawNode,
}

// HasSymbol reports whether kind id has a drawing routine.
func HasSymbol(id string) bool {
	_, ok := symbols[id]
	return ok
}

// terminalLeads strokes the two short leads from the element edges to
// 0.2w and 0.8w.
func terminalLeads(s Surface, w, h float64) {
	s.MoveTo(0, h/2)
	s.LineTo(w*0.2, h/2)
	s.MoveTo(w*0.8, h/2)
	s.LineTo(w, h/2)
}

func drawResistor(s Surface, w, h float64) {
	terminalLeads(s, w, h)

	s.MoveTo(w*0.2, h/2)
	for i := 0; i < 6; i++ {
		x := w*0.2 + float64(i)*w*0.6/6
		y := h/2 + h/4
		if i%2 == 0 {
			y = h/2 - h/4
		}
		s.LineTo(x, y)
	}
	s.LineTo(w*0.8, h/2)
	s.Stroke()
}

func drawCapacitor(s Surface, w, h float64) {
	s.MoveTo(0, h/2)
	s.LineTo(w*0.4, h/2)
	s.MoveTo(w*0.6, h/2)
	s.LineTo(w, h/2)

	// plates
	s.MoveTo(w*0.4, h*0.2)
	s.LineTo(w*0.4, h*0.8)
	s.MoveTo(w*0.6, h*0.2)
	s.LineTo(w*0.6, h*0.8)
	s.Stroke()
}

// drawInductor draws four half-turn coils bulging upwards between the leads.
func drawInductor(s Surface, w, h float64) {
	terminalLeads(s, w, h)

	r := w * 0.6 / 8
	s.MoveTo(w*0.2, h/2)
	for i := 0; i < 4; i++ {
		cx := w*0.2 + (float64(i)+0.5)*w*0.6/4
		s.Arc(cx, h/2, r, math.Pi, 2*math.Pi)
	}
	s.Stroke()
}

func sourceCircle(s Surface, w, h float64) {
	terminalLeads(s, w, h)
	s.MoveTo(w*0.8, h/2)
	s.Arc(w/2, h/2, w*0.3, 0, 2*math.Pi)
	s.Stroke()
}

func drawVoltageSource(s Surface, w, h float64) {
	sourceCircle(s, w, h)
	s.FillText("+", w*0.35, h/2+5, SignSize, AlignCenter)
	s.FillText("−", w*0.65, h/2+5, SignSize, AlignCenter)
}

func drawCurrentSource(s Surface, w, h float64) {
	sourceCircle(s, w, h)

	// arrow
	s.MoveTo(w*0.4, h/2)
	s.LineTo(w*0.6, h/2)
	s.MoveTo(w*0.55, h*0.4)
	s.LineTo(w*0.6, h/2)
	s.LineTo(w*0.55, h*0.6)
	s.Stroke()
}

func drawGround(s Surface, w, h float64) {
	s.MoveTo(w/2, 0)
	s.LineTo(w/2, h*0.4)

	s.MoveTo(w*0.2, h*0.4)
	s.LineTo(w*0.8, h*0.4)
	s.MoveTo(w*0.3, h*0.6)
	s.LineTo(w*0.7, h*0.6)
	s.MoveTo(w*0.4, h*0.8)
	s.LineTo(w*0.6, h*0.8)
	s.Stroke()
}

func drawWire(s Surface, w, h float64) {
	s.MoveTo(0, h/2)
	s.LineTo(w, h/2)
	s.Stroke()
}

func drawNode(s Surface, w, h float64) {
	s.MoveTo(w, h/2)
	s.Arc(w/2, h/2, w/2, 0, 2*math.Pi)
	s.Fill()
}

// DrawElement draws e in model coordinates: selection outline first, then
// the kind's symbol, then the label and value text. Rotation turns the
// element about its centre.
func DrawElement(s Surface, e *circuit.Element, showSelection bool) {
	w, h := e.Width, e.Height

	s.Save()
	defer s.Restore()

	s.Translate(e.X+w/2, e.Y+h/2)
	s.Rotate(e.Rotation)
	s.Translate(-w/2, -h/2)

	if e.Selected && showSelection {
		s.SetStrokeColor(colorSelection)
		s.SetLineWidth(SymbolLineWidth)
		s.SetDash(5, 5)
		s.StrokeRect(-SelectionOutset, -SelectionOutset, w+2*SelectionOutset, h+2*SelectionOutset)
		s.SetDash()
	}

	s.SetStrokeColor(colorInk)
	s.SetFillColor(colorInk)
	s.SetLineWidth(SymbolLineWidth)
	if draw, ok := symbols[e.Kind.ID]; ok {
		draw(s, w, h)
	}

	if e.Label != "" {
		s.FillText(e.Label, w/2, LabelOffset, LabelSize, AlignCenter)
	}
	if e.Value != "" {
		s.FillText(e.Value, w/2, h+ValueOffset, LabelSize, AlignCenter)
	}
}
