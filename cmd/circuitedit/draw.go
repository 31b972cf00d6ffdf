package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/editor"
	"github.com/ha1tch/circuit-toolkit/pkg/render"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleElement    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSelection  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(37, 99, 235)).Bold(true) // #2563eb
	styleGrid       = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray) // Help bar on default background
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// paletteTop is the sidebar row of the first palette entry.
const paletteTop = 2

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawCanvas()
	ed.drawSidebar(w, h)

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h, ed.inputPrompt, ed.inputBuffer+"_")
	case ModeConfirm:
		ed.drawInputBox(w, h, ed.confirmPrompt, "")
	case ModeExport:
		ed.drawExport(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}

	ed.drawStatusBar(w, h)
}

// styleFor maps a drawing colour onto a terminal style. Dark ink becomes
// the terminal foreground.
func styleFor(c color.Color, alpha float64) tcell.Style {
	style := styleElement
	r, g, b, _ := c.RGBA()
	switch {
	case r>>8 == 37 && g>>8 == 99 && b>>8 == 235:
		style = styleSelection
	case r>>8 >= 0xe0 && g>>8 >= 0xe0 && b>>8 >= 0xe0:
		style = styleGrid
	}
	if alpha < 1 {
		style = style.Dim(true)
	}
	return style
}

func (ed *Editor) drawCanvas() {
	cols, rows := ed.canvasSize()
	if cols <= 0 || rows <= 0 {
		return
	}
	if ed.config.ShowGrid {
		ed.drawGridDots(cols, rows)
	}

	s := newCellSurface(ed.screen, cols, rows, styleFor)
	render.Draw(s, render.Scene{
		Circuit: ed.core.Circuit(),
		View:    ed.core.View(),
		Preview: ed.core.Preview(),
		Width:   float64(cols) * CellW,
		Height:  float64(rows) * CellH,
	})
}

// drawGridDots marks grid intersections. Lines would bury the symbols at
// terminal resolution.
func (ed *Editor) drawGridDots(cols, rows int) {
	v := ed.core.View()
	step := ed.core.GridSize() * v.Zoom
	if step < CellW {
		return
	}
	w, h := float64(cols)*CellW, float64(rows)*CellH
	offX := math.Mod(v.PanX, step)
	if offX < 0 {
		offX += step
	}
	offY := math.Mod(v.PanY, step)
	if offY < 0 {
		offY += step
	}
	for y := offY; y < h; y += step {
		for x := offX; x < w; x += step {
			col, row := cellOf(x, y)
			ed.screen.SetContent(col, row, '·', nil, styleGrid)
		}
	}
}

func (ed *Editor) drawSidebar(w, h int) {
	x0 := w - ed.sidebarWidth
	for y := 0; y < h-2; y++ {
		ed.screen.SetContent(x0, y, '│', nil, styleBorder)
	}
	x := x0 + 2
	width := ed.sidebarWidth - 3

	ed.drawString(x, 0, "Components", styleSidebarH)
	tool := ed.core.Tool()
	for i, k := range circuit.Kinds() {
		line := fmt.Sprintf("%d %s %s", i+1, k.Symbol, k.Name)
		style := styleSidebar
		if tool != nil && tool.ID == k.ID {
			style = styleMenuSel
		}
		ed.drawString(x, paletteTop+i, truncate(line, width), style)
	}

	y := paletteTop + len(circuit.Kinds()) + 1
	ed.drawString(x, y, "Selection", styleSidebarH)
	y++
	sel := ed.core.Circuit().Selection()
	switch len(sel) {
	case 0:
		ed.drawString(x, y, "  none", styleSidebar)
	case 1:
		e := sel[0]
		ed.drawString(x, y, truncate("  "+e.Kind.Name, width), styleSidebar)
		y++
		ed.drawString(x, y, fmt.Sprintf("  at %g,%g  %gx%g", e.X, e.Y, e.Width, e.Height), styleSidebar)
		if e.Label != "" {
			y++
			ed.drawString(x, y, truncate("  label: "+e.Label, width), styleSidebar)
		}
		if e.Value != "" {
			y++
			ed.drawString(x, y, truncate("  value: "+e.Value, width), styleSidebar)
		}
	default:
		ed.drawString(x, y, fmt.Sprintf("  %d elements", len(sel)), styleSidebar)
	}
	y += 2

	ed.drawString(x, y, "View", styleSidebarH)
	y++
	ed.drawString(x, y, fmt.Sprintf("  zoom %d%%", ed.core.ZoomPercent()), styleSidebar)
	y++
	ed.drawString(x, y, fmt.Sprintf("  grid %g", ed.core.GridSize()), styleSidebar)
}

// paletteIndexAt returns the catalog index under a sidebar cell, or -1.
func (ed *Editor) paletteIndexAt(x, y int) int {
	w, _ := ed.screen.Size()
	if x <= w-ed.sidebarWidth {
		return -1
	}
	i := y - paletteTop
	if i < 0 || i >= len(circuit.Kinds()) {
		return -1
	}
	return i
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1

	// Background
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	ed.drawString(1, y, ed.toolString(), styleStatus)

	info := fmt.Sprintf("%d elements  %d%%", ed.core.Circuit().Len(), ed.core.ZoomPercent())
	ed.drawString(w/2-len(info)/2, y, info, styleStatus)

	// Message
	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		if ed.messageType.flashes() && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		msg := truncate(ed.message, w/2-2)
		ed.drawString(w-len([]rune(msg))-2, y, msg, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

func (ed *Editor) toolString() string {
	tool := ed.core.Tool()
	switch ed.core.State() {
	case editor.StatePlacingPath:
		return tool.Name + ": click end point"
	case editor.StateToolSelected:
		return tool.Name
	}
	if ed.core.Dragging() {
		return "MOVE"
	}
	return "SELECT"
}

func (ed *Editor) drawInputBox(w, h int, prompt, text string) {
	boxW := 60
	if boxW > w-2 {
		boxW = w - 2
	}
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, prompt, styleInput)
	ed.drawString(boxX+2+len([]rune(prompt)), boxY+1, truncate(text, boxW-4-len([]rune(prompt))), styleInput)
}

func (ed *Editor) drawExport(w, h int) {
	lines := strings.Split(ed.core.Export(), "\n")
	boxW := w - 8
	boxH := h - 6
	if boxW < 20 || boxH < 5 {
		return
	}
	boxX, boxY := 4, 2
	ed.drawBox(boxX, boxY, boxW, boxH, styleDefault)
	ed.drawString(boxX+2, boxY, " circuitikz ", styleSidebarH)

	maxScroll := len(lines) - (boxH - 2)
	if maxScroll < 0 {
		maxScroll = 0
	}
	if ed.exportScroll > maxScroll {
		ed.exportScroll = maxScroll
	}
	for i := 0; i < boxH-2 && ed.exportScroll+i < len(lines); i++ {
		ed.drawString(boxX+2, boxY+1+i, truncate(lines[ed.exportScroll+i], boxW-4), styleSidebar)
	}
}

var helpLines = []string{
	"Placing components",
	"  1-8          arm a component (or click it in the palette)",
	"  click        place ground and node; two clicks for the rest",
	"  Esc          cancel placement, disarm tool, clear selection",
	"",
	"Editing",
	"  click/drag   select and move (Shift or Ctrl adds to selection)",
	"  Del          delete selection",
	"  Ctrl+A       select all",
	"  l / v        set label / value of the selection",
	"  r            rotate selection a quarter turn",
	"  x            clear the circuit",
	"",
	"View",
	"  wheel        pan (Ctrl+wheel zooms)",
	"  arrows       pan",
	"  + - 0        zoom in, out, reset",
	"  #            toggle grid",
	"",
	"Output",
	"  e            show markup",
	"  Ctrl+C       copy markup to clipboard",
	"  s / p / g    save .tex / .png / .svg",
	"  t            typeset with LaTeX",
	"",
	"  q            quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 70
	if boxW > w-2 {
		boxW = w - 2
	}
	boxH := h - 4
	if boxH < 5 {
		return
	}
	boxX := (w - boxW) / 2
	ed.drawBox(boxX, 1, boxW, boxH, styleDefault)
	ed.drawString(boxX+2, 1, " Help ", styleSidebarH)
	for i := 0; i < boxH-2 && ed.helpScroll+i < len(helpLines); i++ {
		ed.drawString(boxX+2, 2+i, truncate(helpLines[ed.helpScroll+i], boxW-4), styleSidebar)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, style tcell.Style) {
	// Corners
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	// Horizontal borders
	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}

	// Vertical borders
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	// Fill
	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		ed.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeConfirm:
		return "y:Yes  any other key:No"
	case ModeExport:
		return "↑↓:Scroll  c:Copy  Esc:Close"
	case ModeHelp:
		return "↑↓:Scroll  any other key:Close"
	}
	if ed.core.Placement() != nil {
		return "Click end point  Esc:Cancel"
	}
	return "1-8:Component  Del:Delete  l:Label  v:Value  r:Rotate  e:Export  t:Typeset  ?:Help  q:Quit"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
