// Package markup generates circuitikz markup from a circuit.
package markup

import (
	"fmt"
	"math"
	"strings"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/view"
)

// Block delimiters and the fixed output for an empty circuit.
const (
	BeginBlock = `\begin{circuitikz}`
	EndBlock   = `\end{circuitikz}`
	EmptyBlock = "% Empty circuit\n" + BeginBlock + "\n" + EndBlock
)

// Options configures markup generation.
type Options struct {
	GridSize float64 // model units per markup unit
	Indent   string  // prefix of every statement line
}

// DefaultOptions returns the options used by the editor.
func DefaultOptions() Options {
	return Options{
		GridSize: view.DefaultGridSize,
		Indent:   "  ",
	}
}

// Generate emits one \draw statement per element, in z-order, wrapped in a
// circuitikz block. The result has no trailing newline.
func Generate(c *circuit.Circuit, opts Options) string {
	elements := c.Elements()
	if len(elements) == 0 {
		return EmptyBlock
	}

	var sb strings.Builder
	sb.WriteString(BeginBlock)
	sb.WriteString("\n")
	for _, e := range elements {
		sb.WriteString(opts.Indent)
		sb.WriteString(Statement(e, opts.GridSize))
		sb.WriteString("\n")
	}
	sb.WriteString(EndBlock)
	return sb.String()
}

// Statement returns the \draw statement for a single element.
//
// Coordinates are whole grid units with the y axis flipped: model y grows
// downwards, markup y grows upwards. Point kinds start and end at the same
// coordinate. Path kinds are always laid out horizontally, so their end is
// offset by the element width along x only.
func Statement(e *circuit.Element, grid float64) string {
	if grid <= 0 {
		grid = view.DefaultGridSize
	}

	x1 := gridUnits(e.X, grid)
	y1 := -gridUnits(e.Y, grid)
	x2, y2 := x1, y1
	if e.Kind.IsPath() {
		x2 = x1 + gridUnits(e.Width, grid)
	}

	var opt string
	if e.Label != "" {
		opt = fmt.Sprintf("%s, l=%s", e.Kind.Keyword, e.Label)
	} else {
		opt = e.Kind.Keyword
	}

	return fmt.Sprintf(`\draw (%d,%d) to[%s] (%d,%d);`, x1, y1, opt, x2, y2)
}

func gridUnits(v, grid float64) int {
	return int(math.Round(v / grid))
}

// Document wraps a circuitikz block in a standalone LaTeX document that a
// LaTeX engine can compile on its own.
func Document(block string) string {
	var sb strings.Builder
	sb.WriteString("\\documentclass[border=4pt]{standalone}\n")
	sb.WriteString("\\usepackage{circuitikz}\n")
	sb.WriteString("\\begin{document}\n")
	sb.WriteString(block)
	if !strings.HasSuffix(block, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("\\end{document}\n")
	return sb.String()
}
