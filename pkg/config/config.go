// Package config holds persistent settings for the circuit tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file created in the user's home directory.
const FileName = ".circuitedit.toml"

// Config holds persistent editor settings.
type Config struct {
	GridSize     float64 `toml:"grid_size"`     // model units per grid step
	LatexCommand string  `toml:"latex_command"` // engine used for typeset previews
	ExportDir    string  `toml:"export_dir"`    // where exports land; empty means cwd
	PNGScale     int     `toml:"png_scale"`     // supersampling factor for PNG export
	ShowGrid     bool    `toml:"show_grid"`
	Standalone   bool    `toml:"standalone"` // wrap .tex exports in a compilable document
}

// Default returns default configuration.
func Default() Config {
	return Config{
		GridSize:     20,
		LatexCommand: "pdflatex",
		PNGScale:     4,
		ShowGrid:     true,
	}
}

// Path returns the path to the config file.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads settings from path. Keys missing from the file keep their
// defaults, and a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as TOML.
func Save(path string, cfg Config) error {
	var buf bytes.Buffer
	buf.WriteString("# circuitedit configuration\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Validate rejects settings the tools cannot work with.
func (c Config) Validate() error {
	if c.GridSize <= 0 {
		return fmt.Errorf("grid_size must be positive, got %v", c.GridSize)
	}
	if c.PNGScale < 1 {
		return fmt.Errorf("png_scale must be at least 1, got %d", c.PNGScale)
	}
	if c.LatexCommand == "" {
		return errors.New("latex_command is empty")
	}
	return nil
}

// ExportPath returns where an export called name should be written.
func (c Config) ExportPath(name string) string {
	if c.ExportDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.ExportDir, name)
}
