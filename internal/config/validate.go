package config

import (
	"github.com/matzehuels/collage/pkg/composite"
	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCanvas(); err != nil {
		return err
	}
	if err := c.validateLayout(); err != nil {
		return err
	}
	return c.validatePreview()
}

func (c *Config) validateCanvas() error {
	w, h := composite.FitSize(c.Canvas.Width)
	if err := errors.ValidateCanvas(float64(w), float64(h)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "canvas.width = %d", c.Canvas.Width)
	}
	if c.Canvas.FPS < 1 || c.Canvas.FPS > maxFPS {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas.fps must be between 1 and %d, got %d", maxFPS, c.Canvas.FPS)
	}
	return nil
}

func (c *Config) validateLayout() error {
	if _, err := layout.ParseKind(c.Layout.Default); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout.default")
	}
	return nil
}

func (c *Config) validatePreview() error {
	if c.Preview.Ticks < 1 || c.Preview.Ticks > maxPreviewTicks {
		return errors.New(errors.ErrCodeInvalidConfig, "preview.ticks must be between 1 and %d, got %d", maxPreviewTicks, c.Preview.Ticks)
	}
	return nil
}
