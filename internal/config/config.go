// Package config loads the collage configuration file.
//
// The file is TOML and every key is optional; missing keys keep the values
// from [Default]. The default location follows XDG:
// $XDG_CONFIG_HOME/collage/config.toml, falling back to
// ~/.config/collage/config.toml.
//
//	[canvas]
//	width = 1280
//	fps = 60
//
//	[layout]
//	default = "grid"
//
//	[audio]
//	start_muted = false
//
//	[preview]
//	ticks = 30
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
)

const appName = "collage"

// Canvas controls the compositing surface.
type Canvas struct {
	// Width is the container width; height follows at 16:9.
	Width int `toml:"width"`
	FPS   int `toml:"fps"`
}

// Layout selects the initial layout.
type Layout struct {
	Default string `toml:"default"`
}

// Audio controls the initial audio routing.
type Audio struct {
	StartMuted bool `toml:"start_muted"`
}

// Preview controls the preview command.
type Preview struct {
	// Ticks is how many frames are composited before the snapshot is taken,
	// giving decoders time to buffer.
	Ticks int `toml:"ticks"`
}

// Config is the full configuration.
type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	Layout  Layout  `toml:"layout"`
	Audio   Audio   `toml:"audio"`
	Preview Preview `toml:"preview"`
}

// LayoutKind returns the configured default layout. Call Validate first;
// an unknown name yields Grid.
func (c *Config) LayoutKind() layout.Kind {
	k, err := layout.ParseKind(c.Layout.Default)
	if err != nil {
		return layout.Grid
	}
	return k
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path, or at DefaultPath when path is
// empty. A missing file is not an error: the defaults are returned and
// exists is false. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (cfg *Config, resolved string, exists bool, err error) {
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, "", false, err
		}
	}

	c := Default()
	meta, err := toml.DecodeFile(path, &c)
	switch {
	case err == nil:
		exists = true
	case stderrors.Is(err, fs.ErrNotExist):
		c = Default()
	default:
		return nil, path, false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if exists {
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, path, true, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := c.Validate(); err != nil {
		return nil, path, exists, err
	}
	return &c, path, exists, nil
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// CreateSample writes the default configuration to path. An existing file
// is left alone unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists", path)
		}
	}
	def := Default()
	data, err := def.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
