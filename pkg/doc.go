// Package pkg provides the core libraries for Collage, a live multi-pane
// media compositor.
//
// # Overview
//
// Collage takes several local media files (videos, animated GIFs, still
// images) and composites them into one 16:9 canvas under a choice of
// layouts, while routing audio so that only the selected panes are heard.
// The pkg directory is organized from pure geometry up to live sessions:
//
//  1. [layout] - Pane rectangles for a layout kind, pane count and canvas
//  2. [audio] - Audio routing (global mute plus the audible set)
//  3. [media] - Sources, playback handles and the file opener
//  4. [composite] - Cover-fit drawing and the frame loop
//  5. [session] - The controller owning sources, layout, audio and play state
//  6. [mirror] - A second view that follows a session's snapshots
//
// # Architecture
//
// The typical data flow:
//
//	media files
//	     ↓
//	[media] package (sniff, decode, play)
//	     ↓
//	[session] package (ordering, layout, audio routing)
//	     ↓
//	[composite] package (layout rects → cover-fit frames on a surface)
//	     ↓
//	PNG / terminal view
//
// # Quick Start
//
// Composite two files into a picture-in-picture frame:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/collage/pkg/composite"
//	    "github.com/matzehuels/collage/pkg/layout"
//	    "github.com/matzehuels/collage/pkg/media"
//	    "github.com/matzehuels/collage/pkg/session"
//	)
//
//	// 1. Open sources into a session
//	ctrl := session.New(media.NewFileOpener(nil), session.WithLayout(layout.PictureInPicture))
//	defer ctrl.Close()
//	for _, path := range []string{"main.mp4", "corner.gif"} {
//	    d, _ := media.Describe(path)
//	    ctrl.AddSource(context.Background(), d)
//	}
//
//	// 2. Composite the current scene
//	w, h := composite.FitSize(1280)
//	surface := composite.NewImageSurface(w, h)
//	stats := composite.Compose(surface, ctrl.Scene())
//
// For continuous playback hand the session to a [composite.Renderer]
// instead; it redraws on every tick until stopped.
//
// # Main Packages
//
// [layout] - Five layout kinds (grid, picture-in-picture, side by side,
// stacked rows, featured). [layout.Compute] is pure and returns one rect per
// pane in order; picture-in-picture insets overlap the main pane.
//
// [audio] - [audio.Routing] keeps the global mute flag and the audible set.
// Applying a routing to handles never changes the routing itself.
//
// [media] - [media.Source] pairs a display name with a [media.Handle]. The
// [media.FileOpener] sniffs content with h2non/filetype and decodes images
// and GIFs; builds with the ffmpeg tag add video through reisen and beep.
//
// [composite] - [composite.Compose] draws one frame: every ready pane's
// current frame is scaled to cover its rect and cropped to the rect's
// bounds. [composite.Renderer] runs that on a ticker.
//
// [session] - [session.Controller] accepts edits from any goroutine and
// publishes a [session.Snapshot] after each one. Snapshots can be saved and
// restored as JSON.
//
// [mirror] - [mirror.Mirror] replays snapshots onto its own handles, so a
// second renderer can follow the session at a different size.
//
// # Supporting Packages
//
// [errors] - Coded errors with user-facing messages and input validation.
//
// [observability] - Hook interfaces for render and session events.
//
// [buildinfo] - Version information stamped at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/layout/...           # Specific package
//	go test -run Example ./pkg/...     # Examples only
//	go test -tags ffmpeg ./pkg/media   # Include the video decoder
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/layout
// [audio]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/audio
// [media]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/media
// [composite]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/composite
// [session]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/session
// [mirror]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/mirror
// [errors]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/collage/pkg/buildinfo
package pkg
