// Package media defines collage sources and the decoders behind them.
//
// # Sources and Handles
//
// A [Source] is one user-chosen media file placed in a collage. It pairs the
// identity the rest of the system works with (an opaque ID, a display name,
// the byte size) with a [Handle], the decodable resource the compositor
// polls each tick. Every provenance, whether an on-disk still image, an
// animated GIF or (with the ffmpeg build tag) a video file, is reached
// through the same Handle capability, so the compositor and the layout
// engine never branch on where a source came from.
//
// Handles decode asynchronously. [Handle.ReadyState] reports how far
// buffering got; the compositor only draws once it reaches
// [HaveCurrentData] and otherwise skips the source for that tick.
//
// # Opening
//
// An [Opener] turns a [Descriptor] into a Handle. [NewFileOpener] sniffs the
// file header with h2non/filetype and dispatches on the MIME type:
//
//	opener := media.NewFileOpener(logger)
//	d, err := media.Describe("clips/cat.gif")
//	h, err := opener.Open(ctx, d)
//
// Opening fails with a SOURCE_UNREADABLE error when the file is missing,
// truncated, or not decodable, and with UNSUPPORTED_MEDIA when no
// decoder is registered for its type.
package media
