package main

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestFlashInverted(t *testing.T) {
	// normal(0-125) -> inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
	tests := []struct {
		elapsed      int64
		wantInverted bool
	}{
		{-1, false},
		{0, false},
		{124, false},
		{125, true},
		{249, true},
		{250, false},
		{374, false},
		{375, true},
		{499, true},
		{500, false},
		{1000, false},
	}

	for _, tt := range tests {
		if got := flashInverted(tt.elapsed); got != tt.wantInverted {
			t.Errorf("elapsed=%d: got inverted=%v, want %v", tt.elapsed, got, tt.wantInverted)
		}
	}
}

func TestMessageTypeFlashes(t *testing.T) {
	tests := []struct {
		msgType MessageType
		want    bool
	}{
		{MsgInfo, false},
		{MsgError, true},
		{MsgSuccess, true},
		{MsgWarning, true},
	}
	for _, tt := range tests {
		if got := tt.msgType.flashes(); got != tt.want {
			t.Errorf("type %d: flashes=%v, want %v", tt.msgType, got, tt.want)
		}
	}
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		name  string
		c     color.Color
		alpha float64
		want  tcell.Style
	}{
		{"ink", color.NRGBA{0x33, 0x33, 0x33, 0xff}, 1, styleElement},
		{"selection", color.NRGBA{37, 99, 235, 0xff}, 1, styleSelection},
		{"grid", color.NRGBA{0xf0, 0xf0, 0xf0, 0xff}, 1, styleGrid},
		{"preview", color.NRGBA{0x33, 0x33, 0x33, 0xff}, 0.7, styleElement.Dim(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := styleFor(tt.c, tt.alpha); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Resistor", 20, "Resistor"},
		{"Current Source", 10, "Current..."},
		{"abc", 0, ""},
		{"abcdef", 2, "ab"},
		{"Ω resistor", 4, "Ω..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
