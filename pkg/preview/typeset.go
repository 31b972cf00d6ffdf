// Package preview typesets circuit markup with an external LaTeX engine.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ha1tch/circuit-toolkit/pkg/markup"
)

// ErrEngineNotFound is returned when the LaTeX engine is not installed.
var ErrEngineNotFound = errors.New("latex engine not found")

// waitDelay bounds how long a killed engine may hold its output pipes.
const waitDelay = 2 * time.Second

// Result holds typesetting output.
type Result struct {
	Success  bool
	TexPath  string
	PDFPath  string
	Errors   []string // "!" lines from the engine log
	Warnings []string
	Stdout   string
	Stderr   string
}

// Typesetter wraps an external LaTeX engine such as pdflatex.
type Typesetter struct {
	enginePath string
	outputDir  string
}

// New resolves engine on PATH (or as a path) and prepares outputDir.
func New(engine, outputDir string) (*Typesetter, error) {
	path, err := exec.LookPath(engine)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, engine)
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(absOut, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Typesetter{enginePath: path, outputDir: absOut}, nil
}

// OutputDir returns the absolute directory results are written to.
func (t *Typesetter) OutputDir() string { return t.outputDir }

// Typeset wraps a circuitikz block in a standalone document, writes it as
// name.tex and runs the engine on it. A document that fails to compile is
// reported through Result, not as an error; the error return is for
// failures to run the engine at all, including ctx expiring.
func (t *Typesetter) Typeset(ctx context.Context, block, name string) (*Result, error) {
	texFile := name + ".tex"
	texPath := filepath.Join(t.outputDir, texFile)
	if err := os.WriteFile(texPath, []byte(markup.Document(block)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write input file: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.enginePath,
		"-interaction=nonstopmode", "-halt-on-error", texFile)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = t.outputDir
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("typesetting %s: %w", texFile, ctxErr)
	}

	result := &Result{
		TexPath: texPath,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	result.Errors, result.Warnings = parseLog(result.Stdout + "\n" + result.Stderr)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("running %s: %w", filepath.Base(t.enginePath), err)
		}
		if len(result.Errors) == 0 {
			result.Errors = append(result.Errors, err.Error())
		}
		return result, nil
	}

	pdfPath := filepath.Join(t.outputDir, name+".pdf")
	if _, err := os.Stat(pdfPath); err == nil {
		result.PDFPath = pdfPath
		result.Success = true
	} else if len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "no PDF output generated")
	}
	return result, nil
}

// parseLog picks error and warning lines out of engine output. TeX marks
// errors with a leading "!".
func parseLog(log string) (errs, warnings []string) {
	for _, line := range strings.Split(log, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "!"):
			errs = append(errs, line)
		case strings.Contains(line, "Warning"):
			warnings = append(warnings, line)
		}
	}
	return errs, warnings
}

// Summary is a one-line description of r for a status bar.
func (r *Result) Summary() string {
	switch {
	case r.Success && len(r.Warnings) > 0:
		return fmt.Sprintf("Typeset %s (%d warnings)", filepath.Base(r.PDFPath), len(r.Warnings))
	case r.Success:
		return "Typeset " + filepath.Base(r.PDFPath)
	case len(r.Errors) > 0:
		return "Typesetting failed: " + r.Errors[0]
	}
	return "Typesetting failed"
}
