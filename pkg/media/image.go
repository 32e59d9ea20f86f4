package media

import (
	"bufio"
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"sync"
	"time"

	// Register still image decoders beyond the standard library.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/collage/pkg/errors"
)

// defaultGIFDelay is used for GIF frames that declare no delay.
const defaultGIFDelay = 100 * time.Millisecond

// ImageHandle plays a still image or an animated GIF. GIFs loop forever,
// following their per-frame delays while not paused.
//
// Decoding runs on a background goroutine started by OpenImage; until it
// finishes the handle reports HaveMetadata and presents nothing.
type ImageHandle struct {
	mu     sync.RWMutex
	frames []image.Image
	delays []time.Duration
	total  time.Duration
	state  ReadyState
	err    error

	muted  bool
	paused bool
	closed bool

	// Playback clock: played accumulates time spent playing before
	// resumedAt, which is zero while paused.
	now       func() time.Time
	played    time.Duration
	resumedAt time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// OpenImage checks that d.Ref is a decodable image and starts decoding it
// in the background. The returned handle starts playing.
func OpenImage(ctx context.Context, d Descriptor, logger *log.Logger) (*ImageHandle, error) {
	data, err := os.ReadFile(d.Ref)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "read %s", d.DisplayName)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "decode %s", d.DisplayName)
	}
	if logger == nil {
		logger = log.Default()
	}

	decodeCtx, cancel := context.WithCancel(ctx)
	h := newImageHandle(time.Now)
	h.cancel = cancel
	go func() {
		defer close(h.done)
		frames, delays, err := decodeFrames(decodeCtx, data)
		if err != nil {
			logger.Warn("image decode failed", "source", d.DisplayName, "err", err)
		}
		h.load(frames, delays, err)
	}()
	return h, nil
}

func newImageHandle(now func() time.Time) *ImageHandle {
	return &ImageHandle{
		state:     HaveMetadata,
		now:       now,
		resumedAt: now(),
		done:      make(chan struct{}),
		cancel:    func() {},
	}
}

// load installs decoded frames. A decode error leaves the handle stuck at
// HaveMetadata, which the compositor treats as a stall.
func (h *ImageHandle) load(frames []image.Image, delays []time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if err != nil || len(frames) == 0 {
		h.err = err
		return
	}
	h.frames = frames
	h.delays = delays
	h.total = 0
	for _, d := range delays {
		h.total += d
	}
	h.state = HaveEnoughData
}

// Err returns the background decode error, if any.
func (h *ImageHandle) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

// Wait blocks until background decoding finishes or ctx is done.
func (h *ImageHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frame returns the frame for the current playback position.
func (h *ImageHandle) Frame() image.Image {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed || len(h.frames) == 0 {
		return nil
	}
	if len(h.frames) == 1 || h.total <= 0 {
		return h.frames[0]
	}
	pos := h.position() % h.total
	for i, d := range h.delays {
		if pos < d {
			return h.frames[i]
		}
		pos -= d
	}
	return h.frames[len(h.frames)-1]
}

// position must be called with h.mu held.
func (h *ImageHandle) position() time.Duration {
	if h.paused {
		return h.played
	}
	return h.played + h.now().Sub(h.resumedAt)
}

func (h *ImageHandle) ReadyState() ReadyState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return HaveNothing
	}
	return h.state
}

func (h *ImageHandle) Muted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.muted
}

// SetMuted records the mute flag. Images carry no audio track.
func (h *ImageHandle) SetMuted(muted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.muted = muted
}

func (h *ImageHandle) Paused() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.paused
}

// SetPaused freezes or resumes the animation at its current position.
func (h *ImageHandle) SetPaused(paused bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if paused == h.paused {
		return
	}
	now := h.now()
	if paused {
		h.played += now.Sub(h.resumedAt)
	} else {
		h.resumedAt = now
	}
	h.paused = paused
}

// Close stops decoding and drops the frames.
func (h *ImageHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.frames = nil
	h.delays = nil
	h.mu.Unlock()
	h.cancel()
	return nil
}

var _ Handle = (*ImageHandle)(nil)

// decodeFrames decodes data into fully composited frames. Non-GIF formats
// yield a single frame.
func decodeFrames(ctx context.Context, data []byte) ([]image.Image, []time.Duration, error) {
	r := bufio.NewReader(bytes.NewReader(data))
	if header, _ := r.Peek(6); len(header) == 6 && string(header[:3]) == "GIF" {
		return decodeGIF(ctx, r)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, nil, err
	}
	return []image.Image{img}, []time.Duration{0}, nil
}

// decodeGIF applies each frame's disposal method so that every returned
// frame is a complete picture.
func decodeGIF(ctx context.Context, r *bufio.Reader) ([]image.Image, []time.Duration, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, nil, err
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() && len(g.Image) > 0 {
		bounds = g.Image[0].Bounds()
	}

	canvas := image.NewRGBA(bounds)
	frames := make([]image.Image, 0, len(g.Image))
	delays := make([]time.Duration, 0, len(g.Image))
	for i, frame := range g.Image {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		var previous *image.RGBA
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = cloneRGBA(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		frames = append(frames, cloneRGBA(canvas))

		delay := defaultGIFDelay
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		delays = append(delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return frames, delays, nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
