package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	want := Config{
		GridSize:     10,
		LatexCommand: "lualatex",
		ExportDir:    "/tmp/out",
		PNGScale:     2,
		ShowGrid:     false,
		Standalone:   true,
	}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `latex_command = "lualatex"`) {
		t.Errorf("unexpected file contents:\n%s", data)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	os.WriteFile(path, []byte("grid_size = 40.0\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GridSize != 40 {
		t.Errorf("grid %v, want 40", cfg.GridSize)
	}
	if cfg.LatexCommand != "pdflatex" || cfg.PNGScale != 4 || !cfg.ShowGrid {
		t.Errorf("unset keys lost their defaults: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "grid_size = = 3"},
		{"wrong type", `grid_size = "big"`},
		{"zero grid", "grid_size = 0.0"},
		{"zero scale", "png_scale = 0"},
		{"empty latex", `latex_command = ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			os.WriteFile(path, []byte(tt.content), 0644)
			cfg, err := Load(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if cfg != Default() {
				t.Error("invalid file should fall back to defaults")
			}
		})
	}
}

func TestExportPath(t *testing.T) {
	tests := []struct {
		dir, name, want string
	}{
		{"", "circuit.tex", "circuit.tex"},
		{"/tmp/out", "circuit.tex", "/tmp/out/circuit.tex"},
		{"/tmp/out", "/abs/circuit.png", "/abs/circuit.png"},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.ExportDir = tt.dir
		if got := cfg.ExportPath(tt.name); got != tt.want {
			t.Errorf("ExportPath(%q) with dir %q = %q, want %q", tt.name, tt.dir, got, tt.want)
		}
	}
}

func TestPath(t *testing.T) {
	if !strings.HasSuffix(Path(), FileName) {
		t.Errorf("Path() = %q", Path())
	}
}
