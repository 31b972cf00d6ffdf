package editor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RunScript replays a gesture script against ed, one gesture per line.
// Coordinates are screen positions, exactly as a pointer would report them.
//
//	# comment
//	tool resistor
//	click 0 0            # down + up
//	move 60 0
//	click 60 0
//	down 30 10 multi     # additive selection
//	move 90 10
//	up
//	label R_1
//	value 10k
//	rotate
//	selectall
//	delete
//	clear
//	escape
//	zoom 1.5 | zoom in | zoom out | zoom reset
//	pan -20 0
//	wheel 0 120 zoom
//
// Parsing stops at the first malformed line; gestures before it have
// already been applied.
func RunScript(ed *Editor, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := runGesture(ed, fields); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	return scanner.Err()
}

func runGesture(ed *Editor, fields []string) error {
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "tool":
		if len(args) != 1 {
			return fmt.Errorf("usage: tool <kind>")
		}
		return ed.SelectTool(args[0])

	case "down", "click":
		x, y, err := parsePoint(cmd, args, "multi")
		if err != nil {
			return err
		}
		multi := len(args) == 3
		ed.PointerDown(x, y, multi)
		if cmd == "click" {
			ed.PointerUp()
		}

	case "move":
		x, y, err := parsePoint(cmd, args, "")
		if err != nil {
			return err
		}
		ed.PointerMove(x, y)

	case "up":
		ed.PointerUp()

	case "escape", "esc":
		ed.Escape()

	case "delete":
		ed.DeleteSelected()

	case "selectall":
		ed.SelectAll()

	case "clear":
		ed.Clear()

	case "label":
		ed.SetLabel(strings.Join(args, " "))

	case "value":
		ed.SetValue(strings.Join(args, " "))

	case "rotate":
		ed.RotateSelected()

	case "zoom":
		if len(args) != 1 {
			return fmt.Errorf("usage: zoom <factor|in|out|reset>")
		}
		switch args[0] {
		case "in":
			ed.ZoomIn()
		case "out":
			ed.ZoomOut()
		case "reset":
			ed.ResetView()
		default:
			z, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("zoom: %w", err)
			}
			ed.SetZoom(z)
		}

	case "pan":
		dx, dy, err := parsePoint(cmd, args, "")
		if err != nil {
			return err
		}
		ed.Pan(dx, dy)

	case "wheel":
		dx, dy, err := parsePoint(cmd, args, "zoom")
		if err != nil {
			return err
		}
		ed.Wheel(dx, dy, len(args) == 3)

	default:
		return fmt.Errorf("unknown gesture %q", fields[0])
	}
	return nil
}

// parsePoint reads two numbers and an optional trailing flag word.
func parsePoint(cmd string, args []string, flag string) (float64, float64, error) {
	usage := fmt.Errorf("usage: %s <x> <y>", cmd)
	if flag != "" {
		usage = fmt.Errorf("usage: %s <x> <y> [%s]", cmd, flag)
	}

	switch {
	case len(args) == 2:
	case len(args) == 3 && flag != "" && args[2] == flag:
	default:
		return 0, 0, usage
	}

	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", cmd, err)
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", cmd, err)
	}
	return x, y, nil
}
