package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.LayoutKind() != layout.Grid {
		t.Errorf("LayoutKind() = %v, want grid", cfg.LayoutKind())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if exists {
		t.Error("Load() exists = true for missing file")
	}
	if resolved != path {
		t.Errorf("Load() path = %q, want %q", resolved, path)
	}
	if *cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", *cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[canvas]
width = 1920

[layout]
default = "pip"

[audio]
start_muted = true
`)
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !exists {
		t.Error("Load() exists = false")
	}
	if cfg.Canvas.Width != 1920 {
		t.Errorf("Canvas.Width = %d, want 1920", cfg.Canvas.Width)
	}
	if cfg.Canvas.FPS != Default().Canvas.FPS {
		t.Errorf("Canvas.FPS = %d, want default %d", cfg.Canvas.FPS, Default().Canvas.FPS)
	}
	if cfg.LayoutKind() != layout.PictureInPicture {
		t.Errorf("LayoutKind() = %v, want pip", cfg.LayoutKind())
	}
	if !cfg.Audio.StartMuted {
		t.Error("Audio.StartMuted = false, want true")
	}
	if cfg.Preview.Ticks != defaultPreviewTicks {
		t.Errorf("Preview.Ticks = %d, want %d", cfg.Preview.Ticks, defaultPreviewTicks)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[canvas\nwidth = 1", "parse"},
		{"unknown key", "[canvas]\nheight = 720\n", "canvas.height"},
		{"bad layout", "[layout]\ndefault = \"mosaic\"\n", "layout.default"},
		{"bad fps", "[canvas]\nfps = 0\n", "canvas.fps"},
		{"bad width", "[canvas]\nwidth = -4\n", "canvas.width"},
		{"bad ticks", "[preview]\nticks = 0\n", "preview.ticks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Load() error = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collage", "config.toml")
	if err := CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample() error: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load(sample) error: %v", err)
	}
	if !exists || *cfg != Default() {
		t.Errorf("Load(sample) = %+v, want defaults", *cfg)
	}

	if err := CreateSample(path, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CreateSample(existing) error = %v, want INVALID_INPUT", err)
	}
	if err := CreateSample(path, true); err != nil {
		t.Errorf("CreateSample(overwrite) error: %v", err)
	}
}

func TestDefaultPathHonorsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	got, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "collage", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
