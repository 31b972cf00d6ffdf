package editor

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

func onlyElement(t *testing.T, ed *Editor) *circuit.Element {
	t.Helper()
	els := ed.Circuit().Elements()
	if len(els) != 1 {
		t.Fatalf("circuit has %d elements, want 1", len(els))
	}
	return els[0]
}

func TestResistorTwoClickRoundTrip(t *testing.T) {
	ed := New()
	if err := ed.SelectTool("resistor"); err != nil {
		t.Fatal(err)
	}

	ed.PointerDown(0, 0, false)
	if ed.State() != StatePlacingPath {
		t.Fatalf("after first click: state %v, want placing", ed.State())
	}
	if ed.Circuit().Len() != 0 {
		t.Fatal("preview was committed on the first click")
	}

	ed.PointerDown(60, 0, false)
	if ed.State() != StateToolSelected {
		t.Fatalf("after second click: state %v, want tool", ed.State())
	}

	e := onlyElement(t, ed)
	if e.X != 0 || e.Y != 0 || e.Width != 60 || e.Height != 20 {
		t.Errorf("element: pos (%v,%v) size %vx%v, want (0,0) 60x20", e.X, e.Y, e.Width, e.Height)
	}
	if !e.Selected {
		t.Error("placed element not selected")
	}
	if !strings.Contains(ed.Export(), `\draw (0,0) to[resistor] (3,0);`) {
		t.Errorf("export:\n%s", ed.Export())
	}
}

func TestGroundSingleClick(t *testing.T) {
	ed := New()
	if err := ed.SelectTool("ground"); err != nil {
		t.Fatal(err)
	}
	ed.PointerDown(40, 40, false)

	if ed.State() != StateToolSelected {
		t.Errorf("state %v, want tool (point placement is repeatable)", ed.State())
	}
	e := onlyElement(t, ed)
	if e.X != 40 || e.Y != 40 {
		t.Errorf("position (%v,%v), want (40,40)", e.X, e.Y)
	}
	if !strings.Contains(ed.Export(), `\draw (2,-2) to[ground] (2,-2);`) {
		t.Errorf("export:\n%s", ed.Export())
	}

	ed.PointerDown(83, 41, false)
	els := ed.Circuit().Elements()
	if len(els) != 2 {
		t.Fatalf("second click: %d elements, want 2", len(els))
	}
	if els[1].X != 80 || els[1].Y != 40 {
		t.Errorf("second ground not snapped: (%v,%v)", els[1].X, els[1].Y)
	}
	if els[0].Selected || !els[1].Selected {
		t.Error("new element must be selected exclusively")
	}
}

func TestPlacementSnapsAnchor(t *testing.T) {
	ed := New()
	ed.SelectTool("capacitor")
	ed.PointerDown(11, 29, false)
	p := ed.Placement()
	if p == nil {
		t.Fatal("no placement session")
	}
	if p.Anchor != (circuit.Point{X: 20, Y: 20}) {
		t.Errorf("anchor %v, want {20 20}", p.Anchor)
	}
	if p.Preview.X != 20 || p.Preview.Y != 20 {
		t.Errorf("preview origin (%v,%v)", p.Preview.X, p.Preview.Y)
	}
}

func TestPreviewExtent(t *testing.T) {
	tests := []struct {
		name      string
		kind      string
		moveX     float64
		moveY     float64
		wantWidth float64
	}{
		{"longer than default", "resistor", 140, 0, 140},
		{"shorter than default floors", "resistor", 20, 0, 60},
		{"same point floors", "wire", 0, 0, 40},
		{"leftwards uses magnitude", "inductor", -100, 0, 100},
		{"vertical drag stays horizontal", "capacitor", 20, 200, 40},
		{"diagonal uses x extent", "wire", 80, 60, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := New()
			ed.SelectTool(tt.kind)
			ed.PointerDown(0, 0, false)
			ed.PointerMove(tt.moveX, tt.moveY)

			pv := ed.Preview()
			k, _ := circuit.Lookup(tt.kind)
			if pv.Width != tt.wantWidth {
				t.Errorf("width %v, want %v", pv.Width, tt.wantWidth)
			}
			if pv.Height != k.Height {
				t.Errorf("height %v, want kind default %v", pv.Height, k.Height)
			}
			if pv.X != 0 || pv.Y != 0 {
				t.Errorf("preview moved to (%v,%v)", pv.X, pv.Y)
			}
			if !ed.TakeRedraw() {
				t.Error("preview update did not request a redraw")
			}
		})
	}
}

func TestSelectToolDiscardsPreview(t *testing.T) {
	ed := New()
	ed.SelectTool("resistor")
	ed.PointerDown(0, 0, false)
	if err := ed.SelectTool("wire"); err != nil {
		t.Fatal(err)
	}
	if ed.State() != StateToolSelected || ed.Preview() != nil {
		t.Errorf("state %v, preview %v", ed.State(), ed.Preview())
	}
	if ed.Tool().ID != "wire" {
		t.Errorf("tool %s, want wire", ed.Tool().ID)
	}
	if ed.Circuit().Len() != 0 {
		t.Error("discarded preview ended up in the circuit")
	}
}

func TestSelectUnknownTool(t *testing.T) {
	ed := New()
	ed.SelectTool("node")
	err := ed.SelectTool("flux-capacitor")
	if !errors.Is(err, circuit.ErrUnknownKind) {
		t.Fatalf("got %v, want ErrUnknownKind", err)
	}
	if ed.Tool() == nil || ed.Tool().ID != "node" {
		t.Error("failed SelectTool changed the armed tool")
	}
}

func TestEscape(t *testing.T) {
	ed := New()
	ed.SelectTool("ground")
	ed.PointerDown(0, 0, false)
	ed.SelectTool("resistor")
	ed.PointerDown(100, 100, false)

	ed.Escape()
	if ed.State() != StateIdle {
		t.Errorf("state %v, want idle", ed.State())
	}
	if ed.Tool() != nil || ed.Preview() != nil {
		t.Error("tool or preview survived escape")
	}
	if len(ed.Circuit().Selection()) != 0 {
		t.Error("selection survived escape")
	}
	if ed.Circuit().Len() != 1 {
		t.Errorf("escape changed the circuit: %d elements", ed.Circuit().Len())
	}
}

func TestInvalidGesturesAreSilent(t *testing.T) {
	var logBuf bytes.Buffer
	ed := New(WithLogger(slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	ed.PointerMove(40, 40)
	ed.PointerUp()
	ed.DeleteSelected()
	if ed.Circuit().Len() != 0 || ed.State() != StateIdle {
		t.Error("stray gestures changed the editor")
	}
	if !strings.Contains(logBuf.String(), "ignored gesture") {
		t.Errorf("ignored move not logged: %q", logBuf.String())
	}
}

func TestPickAndDrag(t *testing.T) {
	ed := New()
	ed.SelectTool("resistor")
	ed.PointerDown(0, 0, false)
	ed.PointerDown(60, 0, false)
	ed.Escape()
	e := onlyElement(t, ed)

	ed.PointerDown(30, 10, false)
	if !e.Selected || !ed.Dragging() {
		t.Fatal("press on element did not select and start a drag")
	}

	ed.PointerMove(75, 32) // origin 45,22 snaps to 40,20
	if e.X != 40 || e.Y != 20 {
		t.Errorf("dragged to (%v,%v), want (40,20)", e.X, e.Y)
	}
	ed.PointerUp()
	if ed.Dragging() {
		t.Error("drag survived pointer up")
	}

	ed.PointerMove(300, 300)
	if e.X != 40 || e.Y != 20 {
		t.Error("element moved after the drag ended")
	}
	if ed.Circuit().Len() != 1 {
		t.Error("dragging created or destroyed elements")
	}
}

func TestPickEmptyClearsSelection(t *testing.T) {
	ed := New()
	ed.SelectTool("node")
	ed.PointerDown(0, 0, false)
	ed.Escape()
	e := onlyElement(t, ed)
	ed.Circuit().Select(e, false)

	ed.PointerDown(500, 500, false)
	if e.Selected || len(ed.Circuit().Selection()) != 0 {
		t.Error("click on empty canvas kept the selection")
	}
	if ed.Dragging() {
		t.Error("drag started on empty canvas")
	}
}

func TestPickMultiSelect(t *testing.T) {
	ed := New()
	ed.SelectTool("node")
	ed.PointerDown(0, 0, false)
	ed.PointerDown(100, 0, false)
	ed.Escape()
	els := ed.Circuit().Elements()

	ed.PointerDown(2, 2, false)
	ed.PointerUp()
	ed.PointerDown(102, 2, true)
	ed.PointerUp()
	ed.PointerDown(102, 2, true)
	ed.PointerUp()

	sel := ed.Circuit().Selection()
	if len(sel) != 2 || sel[0] != els[0] || sel[1] != els[1] {
		t.Errorf("selection %v, want both nodes in click order", sel)
	}
}

func TestPlacementThroughZoomAndPan(t *testing.T) {
	ed := New()
	ed.SetZoom(2)
	ed.Pan(10, 10)
	ed.SelectTool("ground")
	ed.PointerDown(130, 90, false) // model (60, 40)

	e := onlyElement(t, ed)
	if e.X != 60 || e.Y != 40 {
		t.Errorf("position (%v,%v), want (60,40)", e.X, e.Y)
	}
}

func TestDeleteDuringDrag(t *testing.T) {
	ed := New()
	ed.SelectTool("node")
	ed.PointerDown(0, 0, false)
	ed.Escape()
	ed.PointerDown(2, 2, false)
	ed.DeleteSelected()
	if ed.Dragging() {
		t.Error("drag survived deletion of its element")
	}
	ed.PointerMove(100, 100)
	if ed.Circuit().Len() != 0 {
		t.Error("deleted element came back")
	}
}

func TestZoomControls(t *testing.T) {
	ed := New()
	ed.SetZoom(100)
	if ed.View().Zoom != 5.0 {
		t.Errorf("zoom %v, want 5", ed.View().Zoom)
	}
	ed.SetZoom(0.0001)
	if ed.View().Zoom != 0.1 {
		t.Errorf("zoom %v, want 0.1", ed.View().Zoom)
	}

	ed.ResetView()
	ed.ZoomIn()
	if got := ed.ZoomPercent(); got != 120 {
		t.Errorf("zoom in: %d%%, want 120%%", got)
	}
	ed.ZoomOut()
	if got := ed.ZoomPercent(); got != 100 {
		t.Errorf("zoom out: %d%%, want 100%%", got)
	}

	ed.Wheel(0, 120, true)
	if got := ed.ZoomPercent(); got != 90 {
		t.Errorf("wheel down: %d%%, want 90%%", got)
	}
	ed.Wheel(0, -120, true)
	if got := ed.ZoomPercent(); got != 99 {
		t.Errorf("wheel up: %d%%, want 99%%", got)
	}

	ed.Wheel(5, -7, false)
	v := ed.View()
	if v.PanX != -5 || v.PanY != 7 {
		t.Errorf("wheel pan (%v,%v), want (-5,7)", v.PanX, v.PanY)
	}
	if !ed.TakeRedraw() || ed.TakeRedraw() {
		t.Error("TakeRedraw must report once and reset")
	}
}

func TestLabelValueRotate(t *testing.T) {
	ed := New()
	ed.SelectTool("resistor")
	ed.PointerDown(0, 0, false)
	ed.PointerDown(60, 0, false)

	if n := ed.SetLabel("R_1"); n != 1 {
		t.Errorf("SetLabel touched %d elements", n)
	}
	ed.SetValue("10k")
	ed.RotateSelected()
	e := onlyElement(t, ed)
	if e.Label != "R_1" || e.Value != "10k" || e.Rotation == 0 {
		t.Errorf("element %+v", e)
	}
	if !strings.Contains(ed.Export(), `to[resistor, l=R_1]`) {
		t.Errorf("label missing from export:\n%s", ed.Export())
	}

	for i := 0; i < 3; i++ {
		ed.RotateSelected()
	}
	if e.Rotation > 1e-9 && e.Rotation < 2*3.14159-1e-6 {
		t.Errorf("four quarter turns left rotation %v", e.Rotation)
	}
}

func TestSelectAllAndClear(t *testing.T) {
	ed := New()
	ed.SelectTool("node")
	ed.PointerDown(0, 0, false)
	ed.PointerDown(40, 0, false)
	ed.SelectAll()
	if len(ed.Circuit().Selection()) != 2 {
		t.Errorf("select all: %d selected", len(ed.Circuit().Selection()))
	}
	ed.Clear()
	if ed.Circuit().Len() != 0 {
		t.Error("clear left elements")
	}
	if ed.State() != StateToolSelected {
		t.Errorf("clear disarmed the tool: %v", ed.State())
	}
	if ed.Export() != "% Empty circuit\n\\begin{circuitikz}\n\\end{circuitikz}" {
		t.Errorf("export after clear: %q", ed.Export())
	}
}

func TestGridSizeOption(t *testing.T) {
	ed := New(WithGridSize(10))
	ed.SelectTool("node")
	ed.PointerDown(14, 16, false)
	e := onlyElement(t, ed)
	if e.X != 10 || e.Y != 20 {
		t.Errorf("position (%v,%v), want (10,20)", e.X, e.Y)
	}
	if !strings.Contains(ed.Export(), `\draw (1,-2) to[node] (1,-2);`) {
		t.Errorf("export:\n%s", ed.Export())
	}
}
