// Command circuit is a CLI tool for drawing circuitikz schematics from
// gesture scripts.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
	"github.com/ha1tch/circuit-toolkit/pkg/config"
	"github.com/ha1tch/circuit-toolkit/pkg/editor"
	"github.com/ha1tch/circuit-toolkit/pkg/markup"
	"github.com/ha1tch/circuit-toolkit/pkg/preview"
	"github.com/ha1tch/circuit-toolkit/pkg/render"
)

const usage = `circuit - circuitikz schematic toolkit

Usage:
  circuit <command> [options]

Commands:
  kinds      List the component catalog
  export     Replay a gesture script and write markup or an image
  info       Show what a gesture script draws
  run        Enter gestures interactively
  typeset    Replay a gesture script and typeset it with LaTeX

Options:
  -v         Log editor activity to stderr
  --grid N   Grid pitch in model units (default from ~/.circuitedit.toml)

Examples:
  circuit export divider.gs
  circuit export divider.gs -o divider.tex --standalone
  circuit export divider.gs -o divider.png
  circuit typeset divider.gs -o build
  circuit run

Use "circuit <command> -h" for more information about a command.
`

// typesetTimeout bounds a single LaTeX run.
const typesetTimeout = 2 * time.Minute

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "kinds":
		cmdKinds()
	case "export":
		cmdExport(args)
	case "info":
		cmdInfo(args)
	case "run":
		cmdRun(args)
	case "typeset":
		cmdTypeset(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// options are the flags shared by every script command.
type options struct {
	output     string
	grid       float64
	standalone bool
	verbose    bool
	help       bool
}

func parseOptions(args []string, cfg config.Config) (options, []string) {
	opts := options{grid: cfg.GridSize, standalone: cfg.Standalone}
	var rest []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				opts.output = args[i+1]
				i++
			}
		case "--grid":
			if i+1 < len(args) {
				g, err := strconv.ParseFloat(args[i+1], 64)
				if err != nil || g <= 0 {
					fmt.Fprintf(os.Stderr, "Invalid grid size: %s\n", args[i+1])
					os.Exit(1)
				}
				opts.grid = g
				i++
			}
		case "--standalone":
			opts.standalone = true
		case "-v", "--verbose":
			opts.verbose = true
		case "-h", "--help":
			opts.help = true
		default:
			rest = append(rest, args[i])
		}
	}
	return opts, rest
}

func loadConfig() config.Config {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return cfg
}

func newEditor(opts options) *editor.Editor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return editor.New(editor.WithGridSize(opts.grid), editor.WithLogger(logger))
}

// loadScript replays the gesture script at path into a fresh editor.
func loadScript(path string, opts options) (*editor.Editor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ed := newEditor(opts)
	if err := editor.RunScript(ed, f); err != nil {
		return nil, err
	}
	return ed, nil
}

func cmdKinds() {
	fmt.Printf("%-3s %-10s %-16s %-16s %-8s %s\n", "KEY", "ID", "NAME", "KEYWORD", "SIZE", "PLACEMENT")
	for i, k := range circuit.Kinds() {
		placement := "two clicks"
		if k.IsPoint() {
			placement = "one click"
		}
		fmt.Printf("%-3d %-10s %-16s %-16s %-8s %s\n", i+1, k.ID, k.Name, k.Keyword,
			fmt.Sprintf("%gx%g", k.Width, k.Height), placement)
	}
}

func cmdExport(args []string) {
	cfg := loadConfig()
	opts, rest := parseOptions(args, cfg)
	if opts.help || len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: circuit export <script> [-o out.tex|out.png|out.svg] [--standalone] [--grid N] [-v]")
		os.Exit(1)
	}

	input := rest[0]
	ed, err := loadScript(input, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	block := ed.Export()
	if opts.output == "" {
		if opts.standalone {
			fmt.Print(markup.Document(block))
		} else {
			fmt.Println(block)
		}
		return
	}

	output := cfg.ExportPath(opts.output)
	if err := writeExport(ed.Circuit(), block, output, opts, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", output)
}

// writeExport writes markup or an image depending on the file extension.
func writeExport(c *circuit.Circuit, block, output string, opts options, cfg config.Config) error {
	switch ext := strings.ToLower(filepath.Ext(output)); ext {
	case ".tex", "":
		text := block + "\n"
		if opts.standalone {
			text = markup.Document(block)
		}
		return os.WriteFile(output, []byte(text), 0644)

	case ".png":
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		pngOpts := render.DefaultPNGOptions()
		pngOpts.Scale = cfg.PNGScale
		pngOpts.GridSize = opts.grid
		if err := render.RenderPNG(c, f, pngOpts); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	case ".svg":
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		svgOpts := render.DefaultSVGOptions()
		svgOpts.GridSize = opts.grid
		if err := render.RenderSVG(c, f, svgOpts); err != nil {
			f.Close()
			return err
		}
		return f.Close()

	default:
		return fmt.Errorf("unknown output format: %s", ext)
	}
}

func cmdInfo(args []string) {
	cfg := loadConfig()
	opts, rest := parseOptions(args, cfg)
	if opts.help || len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: circuit info <script>")
		os.Exit(1)
	}

	input := rest[0]
	ed, err := loadScript(input, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}
	printInfo(os.Stdout, ed)
}

func printInfo(w io.Writer, ed *editor.Editor) {
	c := ed.Circuit()
	counts := make(map[string]int)
	for _, e := range c.Elements() {
		counts[e.Kind.ID]++
	}

	fmt.Fprintf(w, "Elements:    %d\n", c.Len())
	for _, k := range circuit.Kinds() {
		if n := counts[k.ID]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", k.ID, n)
		}
	}
	fmt.Fprintf(w, "Selected:    %d\n", len(c.Selection()))
	if c.Len() > 0 {
		b := c.Bounds()
		fmt.Fprintf(w, "Bounds:      (%g,%g) %gx%g\n", b.X, b.Y, b.Width, b.Height)
	}
	fmt.Fprintf(w, "Grid:        %g\n", ed.GridSize())
	fmt.Fprintf(w, "State:       %s\n", ed.State())
}

func cmdRun(args []string) {
	cfg := loadConfig()
	opts, _ := parseOptions(args, cfg)
	if opts.help {
		fmt.Fprintln(os.Stderr, "Usage: circuit run [--grid N] [-v]")
		os.Exit(1)
	}

	ed := newEditor(opts)
	fmt.Println("Gestures: tool, click, down, move, up, escape, delete, selectall, clear,")
	fmt.Println("          label, value, rotate, zoom, pan, wheel")
	fmt.Println("Commands: show, info, quit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s] > ", ed.State())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "quit", "exit", "q":
			return
		case "show":
			fmt.Println(ed.Export())
			continue
		case "info":
			printInfo(os.Stdout, ed)
			continue
		}

		if err := editor.RunScript(ed, strings.NewReader(line)); err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		if ed.TakeRedraw() {
			fmt.Printf("%d elements, %d selected\n", ed.Circuit().Len(), len(ed.Circuit().Selection()))
		}
	}
}

func cmdTypeset(args []string) {
	cfg := loadConfig()
	opts, rest := parseOptions(args, cfg)
	if opts.help || len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: circuit typeset <script> [-o dir] [--grid N] [-v]")
		os.Exit(1)
	}

	input := rest[0]
	ed, err := loadScript(input, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	dir := opts.output
	if dir == "" {
		dir = cfg.ExportPath(".")
	}
	ts, err := preview.New(cfg.LatexCommand, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	ctx, cancel := context.WithTimeout(context.Background(), typesetTimeout)
	defer cancel()

	res, err := ts.Typeset(ctx, ed.Export(), name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error typesetting %s: %v\n", input, err)
		os.Exit(1)
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	if !res.Success {
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		fmt.Fprintf(os.Stderr, "Typesetting failed: %s\n", res.TexPath)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", res.PDFPath)
}
