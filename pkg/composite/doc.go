// Package composite draws a collage onto a surface, one tick at a time.
//
// # Overview
//
// Each tick the compositor takes a [Scene], an immutable snapshot of the
// ordered sources, their audio state, the layout kind and the play flag. It
// reads the surface size, asks [layout.Compute] for one rectangle per
// source and draws every source whose handle can present a frame. Sources
// that are still buffering are skipped for that tick and picked up on a
// later one; a stalled decoder never blocks the loop.
//
// Frames are drawn with cover fit: scaled to fill the rectangle, centered
// and cropped on the overflowing axis, so no pane is letterboxed.
//
// # Renderer
//
// [Renderer] runs [Compose] on its own goroutine at a fixed cadence (60 Hz
// by default). It has two states, [Stopped] and [Running]:
//
//	r := composite.NewRenderer(composite.WithLogger(logger))
//	if err := r.Start(controller, surface); err != nil {
//	    return err
//	}
//	defer r.Stop()
//
// [Renderer.Stop] is synchronous: once it returns, no further draw reaches
// the surface. Starting again with the same source is a no-op.
//
// Because layout is recomputed from the surface size every tick, resizing
// an [ImageSurface] takes effect on the next frame without any
// notification.
package composite
