package composite

import (
	"fmt"
	"image"

	"github.com/matzehuels/collage/pkg/layout"
)

// Stats describes one composited tick.
type Stats struct {
	Width, Height int
	Kind          layout.Kind
	Layers        int
	// Rects holds the pixel rectangle assigned to each layer, in layer order.
	Rects   []image.Rectangle
	Drawn   int
	Skipped int
	Errors  []LayerError
}

// LayerError reports a layer that could not be drawn for reasons other than
// buffering: a handle that panicked or claimed readiness without a frame.
type LayerError struct {
	ID  string
	Err error
}

func (e LayerError) Error() string { return fmt.Sprintf("source %s: %v", e.ID, e.Err) }

// Compose draws scene onto surface once.
//
// Mute and pause state are pushed to every handle, ready or not, so audio
// follows the routing even while a source buffers. Only handles at
// HaveCurrentData or better are drawn.
func Compose(surface Surface, scene Scene) Stats {
	width, height := surface.Size()
	stats := Stats{Width: width, Height: height, Kind: scene.Kind, Layers: len(scene.Layers)}

	for _, l := range scene.Layers {
		if l.Handle != nil {
			applyState(l, scene.Playing)
		}
	}

	surface.Clear()
	if width <= 0 || height <= 0 || len(scene.Layers) == 0 {
		stats.Skipped = len(scene.Layers)
		return stats
	}

	rects := layout.Compute(scene.Kind, len(scene.Layers), float64(width), float64(height))
	stats.Rects = make([]image.Rectangle, len(rects))
	for i, l := range scene.Layers {
		r := rects[i].Pixels()
		stats.Rects[i] = r

		drawn, err := drawLayer(surface, l, r)
		switch {
		case err != nil:
			stats.Skipped++
			stats.Errors = append(stats.Errors, LayerError{ID: l.ID, Err: err})
		case drawn:
			stats.Drawn++
		default:
			stats.Skipped++
		}
	}
	return stats
}

func applyState(l Layer, playing bool) {
	if muted := !l.Audible; l.Handle.Muted() != muted {
		l.Handle.SetMuted(muted)
	}
	if paused := !playing; l.Handle.Paused() != paused {
		l.Handle.SetPaused(paused)
	}
}

func drawLayer(surface Surface, l Layer, r image.Rectangle) (drawn bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			drawn, err = false, fmt.Errorf("panic while drawing: %v", p)
		}
	}()
	if l.Handle == nil || r.Empty() || !l.Handle.ReadyState().CanPresent() {
		return false, nil
	}
	frame := l.Handle.Frame()
	if frame == nil || frame.Bounds().Empty() {
		return false, fmt.Errorf("ready handle returned no frame")
	}
	surface.DrawFrame(CoverFit(frame, r.Dx(), r.Dy()), r)
	return true, nil
}
