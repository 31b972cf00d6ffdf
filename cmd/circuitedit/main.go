// Command circuitedit is a TUI editor for circuitikz schematics.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/config"
	"github.com/ha1tch/circuit-toolkit/pkg/editor"
	"github.com/ha1tch/circuit-toolkit/pkg/markup"
	"github.com/ha1tch/circuit-toolkit/pkg/preview"
	"github.com/ha1tch/circuit-toolkit/pkg/render"
)

// Editor holds all terminal UI state. Circuit state lives in the core
// editor; this type only maps terminal events onto it.
type Editor struct {
	screen      tcell.Screen
	core        *editor.Editor
	config      config.Config
	configPath  string
	log         *slog.Logger
	mode        Mode
	message     string
	messageType MessageType

	// Mouse tracking
	leftMouseDown bool

	// UI regions
	sidebarWidth int

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	// Confirmation state
	confirmPrompt string
	confirmAction func()

	// Scroll offsets
	exportScroll int
	helpScroll   int

	// Typesetting runs in the background; only one at a time.
	typesetting bool

	// Message flash state
	messageFlashStart int64 // Unix milliseconds when message was shown

	// flashAt mirrors messageFlashStart for the ticker goroutine; 0 when
	// the current message does not flash.
	flashAt atomic.Int64
}

// typesetDone is posted back into the event loop when a typeset finishes.
type typesetDone struct {
	result *preview.Result
	err    error
}

// Mode represents editor mode
type Mode int

const (
	ModeCanvas  Mode = iota
	ModeInput        // single-line prompt
	ModeConfirm      // y/n question
	ModeExport       // markup viewer
	ModeHelp         // help overlay
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

// flashes reports whether messages of this type flash in the status bar.
func (t MessageType) flashes() bool {
	return t != MsgInfo
}

// Flash timing: four 125ms phases alternating normal and inverted.
const (
	flashPhase    = 125
	flashDuration = 4 * flashPhase
)

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it appeared.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashDuration {
		return false
	}
	phase := elapsed / flashPhase
	return phase == 1 || phase == 3
}

const typesetTimeout = 2 * time.Minute

const usage = `Usage: circuitedit [--log file] [script]

  --log file   write debug records about editor activity to file
  script       gesture script to replay before editing starts
`

func main() {
	var logPath, script string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--log":
			if i+1 < len(args) {
				logPath = args[i+1]
				i++
			}
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			script = args[i]
		}
	}

	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log %s: %v\n", logPath, err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ed := newEditor(cfg, logger)
	ed.configPath = cfgPath

	if script != "" {
		if err := ed.loadScript(script); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", script, err)
			os.Exit(1)
		}
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.Clear()
	ed.screen = screen

	logger.Info("editor started", "grid", cfg.GridSize, "config", cfgPath)

	// Main loop
	ed.run()

	screen.Fini()
}

func newEditor(cfg config.Config, logger *slog.Logger) *Editor {
	return &Editor{
		core:         editor.New(editor.WithGridSize(cfg.GridSize), editor.WithLogger(logger)),
		config:       cfg,
		log:          logger,
		sidebarWidth: 26,
	}
}

func (ed *Editor) loadScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return editor.RunScript(ed.core, f)
}

func (ed *Editor) run() {
	// Use a goroutine to send periodic refresh events during a message flash
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond) // 20fps for smooth flash
		defer ticker.Stop()
		for range ticker.C {
			start := ed.flashAt.Load()
			if start == 0 {
				continue
			}
			elapsed := time.Now().UnixMilli() - start
			if elapsed >= 0 && elapsed < flashDuration+200 {
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			if done, ok := ev.Data().(typesetDone); ok {
				ed.finishTypeset(done)
			}
		}
		ed.core.TakeRedraw()
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlQ {
		return true
	}

	switch ed.mode {
	case ModeCanvas:
		return ed.handleCanvasKey(ev)
	case ModeInput:
		ed.handleInputKey(ev)
	case ModeConfirm:
		ed.handleConfirmKey(ev)
	case ModeExport:
		ed.handleExportKey(ev)
	case ModeHelp:
		ed.handleHelpKey(ev)
	}
	return false
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.core.Escape()
		return false
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		n := len(ed.core.Circuit().Selection())
		ed.core.DeleteSelected()
		if n > 0 {
			ed.showMessage(fmt.Sprintf("Deleted %d element(s)", n), MsgSuccess)
		}
		return false
	case tcell.KeyCtrlA:
		ed.core.SelectAll()
		return false
	case tcell.KeyCtrlC:
		ed.copyToClipboard()
		return false
	case tcell.KeyLeft:
		ed.core.Pan(CellW*4, 0)
		return false
	case tcell.KeyRight:
		ed.core.Pan(-CellW*4, 0)
		return false
	case tcell.KeyUp:
		ed.core.Pan(0, CellH*2)
		return false
	case tcell.KeyDown:
		ed.core.Pan(0, -CellH*2)
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	r := ev.Rune()
	if r >= '1' && r <= '9' {
		ed.selectToolIndex(int(r - '1'))
		return false
	}

	switch r {
	case 'q':
		return true
	case '+', '=':
		ed.core.ZoomIn()
	case '-':
		ed.core.ZoomOut()
	case '0':
		ed.core.ResetView()
	case 'e':
		ed.exportScroll = 0
		ed.mode = ModeExport
	case 'l':
		ed.promptSelection("Label: ", func(s string) int { return ed.core.SetLabel(s) })
	case 'v':
		ed.promptSelection("Value: ", func(s string) int { return ed.core.SetValue(s) })
	case 'r':
		if ed.core.RotateSelected() == 0 {
			ed.showMessage("Nothing selected", MsgWarning)
		}
	case 'x':
		if ed.core.Circuit().Len() == 0 {
			return false
		}
		ed.confirm("Clear the whole circuit? (y/n)", func() {
			ed.core.Clear()
			ed.showMessage("Circuit cleared", MsgSuccess)
		})
	case 's':
		ed.promptExport("Save markup as: ", "circuit.tex")
	case 'p':
		ed.promptExport("Save PNG as: ", "circuit.png")
	case 'g':
		ed.promptExport("Save SVG as: ", "circuit.svg")
	case 't':
		ed.startTypeset()
	case '#':
		ed.config.ShowGrid = !ed.config.ShowGrid
		ed.saveConfig()
	case '?':
		ed.helpScroll = 0
		ed.mode = ModeHelp
	}
	return false
}

func (ed *Editor) selectToolIndex(i int) {
	kinds := circuit.Kinds()
	if i < 0 || i >= len(kinds) {
		return
	}
	if err := ed.core.SelectTool(kinds[i].ID); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	hint := "click twice to place"
	if kinds[i].IsPoint() {
		hint = "click to place"
	}
	ed.showMessage(fmt.Sprintf("%s: %s", kinds[i].Name, hint), MsgInfo)
}

func (ed *Editor) promptSelection(prompt string, apply func(string) int) {
	sel := ed.core.Circuit().Selection()
	if len(sel) == 0 {
		ed.showMessage("Nothing selected", MsgWarning)
		return
	}
	initial := ""
	if len(sel) == 1 {
		if strings.HasPrefix(prompt, "Label") {
			initial = sel[0].Label
		} else {
			initial = sel[0].Value
		}
	}
	ed.prompt(prompt, initial, func(s string) {
		n := apply(strings.TrimSpace(s))
		ed.showMessage(fmt.Sprintf("Updated %d element(s)", n), MsgSuccess)
	})
}

func (ed *Editor) prompt(prompt, initial string, action func(string)) {
	ed.inputPrompt = prompt
	ed.inputBuffer = initial
	ed.inputAction = action
	ed.mode = ModeInput
}

func (ed *Editor) confirm(prompt string, action func()) {
	ed.confirmPrompt = prompt
	ed.confirmAction = action
	ed.mode = ModeConfirm
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
	case tcell.KeyEnter:
		ed.mode = ModeCanvas
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
		ed.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
}

func (ed *Editor) handleConfirmKey(ev *tcell.EventKey) {
	if ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y') {
		ed.mode = ModeCanvas
		if ed.confirmAction != nil {
			ed.confirmAction()
		}
		return
	}
	ed.mode = ModeCanvas
	ed.showMessage("Cancelled", MsgInfo)
}

func (ed *Editor) handleExportKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		ed.mode = ModeCanvas
	case tcell.KeyUp:
		if ed.exportScroll > 0 {
			ed.exportScroll--
		}
	case tcell.KeyDown:
		ed.exportScroll++
	case tcell.KeyCtrlC:
		ed.copyToClipboard()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'c':
			ed.copyToClipboard()
		case 'q', 'e':
			ed.mode = ModeCanvas
		}
	}
}

func (ed *Editor) handleHelpKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.helpScroll > 0 {
			ed.helpScroll--
		}
	case tcell.KeyDown:
		if ed.helpScroll < len(helpLines)-1 {
			ed.helpScroll++
		}
	default:
		ed.mode = ModeCanvas
	}
}

// canvasSize returns the canvas area in cells.
func (ed *Editor) canvasSize() (int, int) {
	w, h := ed.screen.Size()
	return w - ed.sidebarWidth, h - 2
}

// cellToScreen maps a terminal cell to canvas screen pixels.
func cellToScreen(col, row int) (float64, float64) {
	return float64(col) * CellW, float64(row) * CellH
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ed.mode != ModeCanvas {
		return
	}
	x, y := ev.Position()
	buttons := ev.Buttons()
	mod := ev.Modifiers()
	canvasW, canvasH := ed.canvasSize()

	// Wheel: pan, or zoom with Ctrl held
	zoom := mod&tcell.ModCtrl != 0
	switch {
	case buttons&tcell.WheelUp != 0:
		ed.core.Wheel(0, -CellH*3, zoom)
		return
	case buttons&tcell.WheelDown != 0:
		ed.core.Wheel(0, CellH*3, zoom)
		return
	case buttons&tcell.WheelLeft != 0:
		ed.core.Wheel(-CellW*3, 0, false)
		return
	case buttons&tcell.WheelRight != 0:
		ed.core.Wheel(CellW*3, 0, false)
		return
	}

	sx, sy := cellToScreen(x, y)
	pressed := buttons&tcell.Button1 != 0

	// A release ends any drag, wherever it lands.
	if !pressed && ed.leftMouseDown {
		ed.leftMouseDown = false
		ed.core.PointerUp()
		return
	}

	// Palette clicks
	if x >= canvasW || y >= canvasH {
		if pressed && !ed.leftMouseDown {
			ed.leftMouseDown = true
			if i := ed.paletteIndexAt(x, y); i >= 0 {
				ed.selectToolIndex(i)
			}
		}
		return
	}

	switch {
	case pressed && !ed.leftMouseDown:
		ed.leftMouseDown = true
		multi := mod&(tcell.ModShift|tcell.ModCtrl) != 0
		ed.core.PointerDown(sx, sy, multi)
	case ed.core.Dragging() || ed.core.Placement() != nil:
		ed.core.PointerMove(sx, sy)
	}
}

func (ed *Editor) copyToClipboard() {
	text := ed.core.Export()
	if err := clipboard.WriteAll(text); err != nil {
		ed.showMessage("Clipboard error: "+err.Error(), MsgError)
		return
	}
	ed.showMessage(fmt.Sprintf("Copied markup to clipboard (%d elements)", ed.core.Circuit().Len()), MsgSuccess)
}

func (ed *Editor) promptExport(prompt, name string) {
	ed.prompt(prompt, ed.config.ExportPath(name), func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if err := ed.exportTo(path); err != nil {
			ed.showMessage("Export failed: "+err.Error(), MsgError)
			return
		}
		ed.showMessage("Written: "+path, MsgSuccess)
	})
}

// exportTo writes the circuit to path, choosing the format by extension.
func (ed *Editor) exportTo(path string) error {
	c := ed.core.Circuit()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tex":
		text := ed.core.Export() + "\n"
		if ed.config.Standalone {
			text = markup.Document(ed.core.Export())
		}
		return os.WriteFile(path, []byte(text), 0644)
	case ".png":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		opts := render.DefaultPNGOptions()
		opts.Scale = ed.config.PNGScale
		opts.GridSize = ed.core.GridSize()
		if err := render.RenderPNG(c, f, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case ".svg":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		opts := render.DefaultSVGOptions()
		opts.GridSize = ed.core.GridSize()
		if err := render.RenderSVG(c, f, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unknown format %q", ext)
	}
}

// startTypeset runs the LaTeX engine on a snapshot of the markup. The
// result comes back through the event loop.
func (ed *Editor) startTypeset() {
	if ed.typesetting {
		ed.showMessage("Typesetting already running", MsgWarning)
		return
	}
	ts, err := preview.New(ed.config.LatexCommand, ed.config.ExportPath("."))
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}

	block := ed.core.Export()
	screen := ed.screen
	ed.typesetting = true
	ed.showMessage("Typesetting...", MsgInfo)
	ed.log.Debug("typeset started", "engine", ed.config.LatexCommand, "dir", ts.OutputDir())

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), typesetTimeout)
		defer cancel()
		res, err := ts.Typeset(ctx, block, "circuit")
		screen.PostEvent(tcell.NewEventInterrupt(typesetDone{result: res, err: err}))
	}()
}

func (ed *Editor) finishTypeset(done typesetDone) {
	ed.typesetting = false
	if done.err != nil {
		ed.log.Error("typeset failed", "err", done.err)
		ed.showMessage("Typesetting failed: "+done.err.Error(), MsgError)
		return
	}
	ed.log.Debug("typeset finished", "success", done.result.Success, "pdf", done.result.PDFPath)
	if done.result.Success {
		ed.showMessage(done.result.Summary(), MsgSuccess)
	} else {
		ed.showMessage(done.result.Summary(), MsgError)
	}
}

func (ed *Editor) saveConfig() {
	if ed.configPath == "" {
		return
	}
	if err := config.Save(ed.configPath, ed.config); err != nil {
		ed.showMessage("Saving settings: "+err.Error(), MsgError)
	}
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
	if msgType.flashes() {
		ed.flashAt.Store(ed.messageFlashStart)
	} else {
		ed.flashAt.Store(0)
	}
	// Trigger immediate refresh for flash animation
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}
