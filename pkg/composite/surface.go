package composite

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/disintegration/imaging"
)

// AspectRatio is the canvas width to height ratio used by [FitSize].
const AspectRatio = 16.0 / 9.0

// Surface is a drawable canvas.
type Surface interface {
	// Size returns the current pixel dimensions. A zero size means the
	// surface is not laid out yet; the compositor skips drawing.
	Size() (width, height int)
	// Clear paints the whole surface with its background.
	Clear()
	// DrawFrame copies img into r. img is already scaled to r's size.
	DrawFrame(img image.Image, r image.Rectangle)
}

// FitSize returns the 16:9 canvas size for a container of the given width.
func FitSize(containerWidth int) (width, height int) {
	if containerWidth <= 0 {
		return 0, 0
	}
	return containerWidth, containerWidth * 9 / 16
}

// CoverFit scales img to fill width x height, preserving aspect ratio and
// cropping the overflow around the center.
func CoverFit(img image.Image, width, height int) *image.NRGBA {
	return imaging.Fill(img, width, height, imaging.Center, imaging.Linear)
}

// ImageSurface is an in-memory RGBA surface. It is safe for concurrent use,
// so a UI goroutine may resize or snapshot it while a renderer draws.
type ImageSurface struct {
	mu         sync.RWMutex
	img        *image.RGBA
	background color.Color
}

// NewImageSurface returns a black surface of the given size.
func NewImageSurface(width, height int) *ImageSurface {
	s := &ImageSurface{background: color.Black}
	s.Resize(width, height)
	return s
}

// SetBackground changes the color used by Clear.
func (s *ImageSurface) SetBackground(c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

// Resize reallocates the surface. Negative sizes are treated as zero.
func (s *ImageSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)
}

func (s *ImageSurface) Size() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)
}

// DrawFrame draws img at r, clipped to the surface.
func (s *ImageSurface) DrawFrame(img image.Image, r image.Rectangle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clipped := r.Intersect(s.img.Bounds())
	if clipped.Empty() {
		return
	}
	sp := img.Bounds().Min.Add(clipped.Min.Sub(r.Min))
	draw.Draw(s.img, clipped, img, sp, draw.Src)
}

// Snapshot returns a copy of the current pixels.
func (s *ImageSurface) Snapshot() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// WritePNG encodes a snapshot of the surface as PNG.
func (s *ImageSurface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.Snapshot())
}

var _ Surface = (*ImageSurface)(nil)
