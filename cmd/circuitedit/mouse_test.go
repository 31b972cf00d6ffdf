package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/config"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(120, 30)

	ed := newEditor(config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ed.screen = screen
	return ed
}

func addNode(t *testing.T, ed *Editor, x, y float64) *circuit.Element {
	t.Helper()
	k, err := circuit.Lookup(circuit.KindNode)
	if err != nil {
		t.Fatal(err)
	}
	return ed.core.Circuit().Add(circuit.NewElement(k, x, y))
}

func TestMouseReleaseOutsideCanvasEndsDrag(t *testing.T) {
	tests := []struct {
		name     string
		releaseX int
		releaseY int
	}{
		{"sidebar", 100, 2},
		{"status bar", 10, 29},
		{"canvas", 6, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed := newTestEditor(t)
			node := addNode(t, ed, 40, 40)

			ed.handleMouse(tcell.NewEventMouse(4, 2, tcell.Button1, tcell.ModNone))
			if !ed.core.Dragging() {
				t.Fatal("press on the node did not start a drag")
			}
			ed.handleMouse(tcell.NewEventMouse(tt.releaseX, tt.releaseY, tcell.Button1, tcell.ModNone))
			ed.handleMouse(tcell.NewEventMouse(tt.releaseX, tt.releaseY, tcell.ButtonNone, tcell.ModNone))
			if ed.core.Dragging() {
				t.Fatal("drag still active after release")
			}

			x, y := node.X, node.Y
			ed.handleMouse(tcell.NewEventMouse(20, 10, tcell.ButtonNone, tcell.ModNone))
			if node.X != x || node.Y != y {
				t.Errorf("node followed the pointer after release: (%g,%g) -> (%g,%g)", x, y, node.X, node.Y)
			}
		})
	}
}

func TestMousePaletteClickArmsTool(t *testing.T) {
	ed := newTestEditor(t)
	w, _ := ed.screen.Size()
	x := w - ed.sidebarWidth + 3

	ed.handleMouse(tcell.NewEventMouse(x, paletteTop+1, tcell.Button1, tcell.ModNone))
	ed.handleMouse(tcell.NewEventMouse(x, paletteTop+1, tcell.ButtonNone, tcell.ModNone))

	tool := ed.core.Tool()
	if tool == nil || tool.ID != circuit.Kinds()[1].ID {
		t.Fatalf("tool = %v, want %s", tool, circuit.Kinds()[1].ID)
	}
	if ed.leftMouseDown {
		t.Error("button still marked as held")
	}
}
