package config

import "github.com/matzehuels/collage/pkg/composite"

const (
	defaultCanvasWidth  = 1280
	defaultLayout       = "grid"
	defaultPreviewTicks = 30

	maxFPS          = 240
	maxPreviewTicks = 10000
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{
			Width: defaultCanvasWidth,
			FPS:   composite.DefaultFPS,
		},
		Layout: Layout{
			Default: defaultLayout,
		},
		Preview: Preview{
			Ticks: defaultPreviewTicks,
		},
	}
}
