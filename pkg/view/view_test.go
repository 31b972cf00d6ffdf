package view

import (
	"math"
	"testing"
)

func TestSetZoomClamps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{100, 5.0},
		{0.0001, 0.1},
		{1.5, 1.5},
		{5.0, 5.0},
		{0.1, 0.1},
		{-3, 0.1},
		{math.NaN(), 1},
	}

	for _, tt := range tests {
		v := New()
		if !v.SetZoom(tt.in) {
			t.Errorf("SetZoom(%v) did not request a redraw", tt.in)
		}
		if v.Zoom != tt.want {
			t.Errorf("SetZoom(%v): got %v, want %v", tt.in, v.Zoom, tt.want)
		}
	}
}

func TestZoomByStaysClamped(t *testing.T) {
	v := New()
	for i := 0; i < 50; i++ {
		v.ZoomBy(1.2)
	}
	if v.Zoom != MaxZoom {
		t.Errorf("zoom in: got %v, want %v", v.Zoom, MaxZoom)
	}
	for i := 0; i < 100; i++ {
		v.ZoomBy(1 / 1.2)
	}
	if v.Zoom != MinZoom {
		t.Errorf("zoom out: got %v, want %v", v.Zoom, MinZoom)
	}
}

func TestScreenToModel(t *testing.T) {
	v := View{Zoom: 2, PanX: 10, PanY: -20}
	x, y := v.ScreenToModel(50, 80)
	if x != 20 || y != 50 {
		t.Errorf("got (%v, %v), want (20, 50)", x, y)
	}
	sx, sy := v.ModelToScreen(x, y)
	if sx != 50 || sy != 80 {
		t.Errorf("round trip: got (%v, %v), want (50, 80)", sx, sy)
	}
}

func TestZeroViewActsAsIdentity(t *testing.T) {
	var v View
	x, y := v.ScreenToModel(30, 40)
	if x != 30 || y != 40 {
		t.Errorf("got (%v, %v), want (30, 40)", x, y)
	}
}

func TestPanAndReset(t *testing.T) {
	v := New()
	v.Pan(-5, 7)
	v.SetZoom(3)
	if v.PanX != -5 || v.PanY != 7 {
		t.Errorf("pan: got (%v, %v)", v.PanX, v.PanY)
	}
	v.Reset()
	if v != New() {
		t.Errorf("reset: got %+v", v)
	}
}

func TestSnap(t *testing.T) {
	tests := []struct {
		x, y, grid float64
		wx, wy     float64
	}{
		{0, 0, 20, 0, 0},
		{9.9, 10, 20, 0, 20},    // half rounds up
		{-10, -9.9, 20, -20, 0}, // half rounds away from zero
		{61, 29, 20, 60, 20},
		{37, 12, 0, 40, 20}, // default grid
		{7, 13, 5, 5, 15},
	}

	for _, tt := range tests {
		x, y := Snap(tt.x, tt.y, tt.grid)
		if x != tt.wx || y != tt.wy {
			t.Errorf("Snap(%v, %v, %v) = (%v, %v), want (%v, %v)",
				tt.x, tt.y, tt.grid, x, y, tt.wx, tt.wy)
		}
	}
}

func TestSnapIdempotent(t *testing.T) {
	grids := []float64{1, 5, 10, 20, 25, 7.5}
	for _, g := range grids {
		for x := -203.0; x <= 203; x += 3.7 {
			y := x*1.3 - 11
			sx, sy := Snap(x, y, g)
			ssx, ssy := Snap(sx, sy, g)
			if sx != ssx || sy != ssy {
				t.Errorf("grid %v: snap(snap(%v,%v)) = (%v,%v), snap = (%v,%v)",
					g, x, y, ssx, ssy, sx, sy)
			}
		}
	}
}
