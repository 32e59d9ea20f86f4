// Package session owns the state of a collage: the ordered sources, the
// layout kind, the audio routing and the play flag.
//
// A [Controller] is the single writer. UIs call its mutators; the compositor
// reads it through [Controller.Scene], which hands out a copied
// [composite.Scene] so a tick never observes a half-applied change.
// Secondary surfaces follow along through [Controller.Subscribe], which
// pushes a serializable [Snapshot] after every mutation.
//
// Source order is slot order: the i-th source is drawn into the i-th
// rectangle of the current layout. Adding appends, removing closes the
// source's handle and drops it from the audio selection, so the selection
// only ever names live sources.
//
//	c := session.New(media.NewFileOpener(logger), session.WithLogger(logger))
//	defer c.Close()
//	src, err := c.AddSource(ctx, d)
//	if errors.Is(err, errors.ErrCodeSourceUnreadable) {
//	    // report to the user; nothing was added
//	}
//	c.SetLayout(layout.PictureInPicture)
package session
