package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/collage/pkg/errors"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func writeGIF(t *testing.T, dir, name string, frames int, delay int) string {
	t.Helper()
	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		p := image.NewPaletted(image.Rect(0, 0, 4, 4), palette.Plan9)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				p.SetColorIndex(x, y, uint8(i*40+1))
			}
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, delay)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("gif.EncodeAll() error: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestReadyState(t *testing.T) {
	tests := []struct {
		state   ReadyState
		present bool
		name    string
	}{
		{HaveNothing, false, "nothing"},
		{HaveMetadata, false, "metadata"},
		{HaveCurrentData, true, "current"},
		{HaveFutureData, true, "future"},
		{HaveEnoughData, true, "enough"},
	}
	for _, tt := range tests {
		if got := tt.state.CanPresent(); got != tt.present {
			t.Errorf("%v.CanPresent() = %v, want %v", tt.state, got, tt.present)
		}
		if got := tt.state.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "clip.png", 8, 8)

	d, err := Describe(path)
	if err != nil {
		t.Fatalf("Describe() error: %v", err)
	}
	if d.DisplayName != "clip.png" {
		t.Errorf("DisplayName = %q, want %q", d.DisplayName, "clip.png")
	}
	if d.ByteSize <= 0 {
		t.Errorf("ByteSize = %d, want > 0", d.ByteSize)
	}
	if d.Ref != path {
		t.Errorf("Ref = %q, want %q", d.Ref, path)
	}

	if _, err := Describe(filepath.Join(dir, "missing.mp4")); !errors.Is(err, errors.ErrCodeSourceUnreadable) {
		t.Errorf("Describe(missing) error = %v, want SOURCE_UNREADABLE", err)
	}
	if _, err := Describe(dir); !errors.Is(err, errors.ErrCodeSourceUnreadable) {
		t.Errorf("Describe(dir) error = %v, want SOURCE_UNREADABLE", err)
	}
}

func TestSniff(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("just some words"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want string
		code errors.Code
	}{
		{"png", writePNG(t, dir, "a.png", 2, 2), "image/png", ""},
		{"gif", writeGIF(t, dir, "b.gif", 2, 5), "image/gif", ""},
		{"text", text, "", errors.ErrCodeUnsupportedMedia},
		{"missing", filepath.Join(dir, "nope"), "", errors.ErrCodeSourceUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sniff(tt.path)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("Sniff() error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sniff() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Sniff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileOpenerImage(t *testing.T) {
	dir := t.TempDir()
	d, err := Describe(writePNG(t, dir, "still.png", 16, 9))
	if err != nil {
		t.Fatal(err)
	}

	h, err := NewFileOpener(nil).Open(context.Background(), d)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer h.Close()

	ih, ok := h.(*ImageHandle)
	if !ok {
		t.Fatalf("Open() handle = %T, want *ImageHandle", h)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ih.Wait(ctx); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if got := h.ReadyState(); got != HaveEnoughData {
		t.Errorf("ReadyState() = %v, want %v", got, HaveEnoughData)
	}
	frame := h.Frame()
	if frame == nil {
		t.Fatal("Frame() = nil, want image")
	}
	if got := frame.Bounds().Size(); got != image.Pt(16, 9) {
		t.Errorf("Frame() size = %v, want 16x9", got)
	}

	if err := h.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if h.Frame() != nil || h.ReadyState() != HaveNothing {
		t.Error("closed handle still presents a frame")
	}
}

func TestFileOpenerErrors(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(text, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A PNG signature followed by garbage sniffs as an image but cannot decode.
	broken := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(broken, []byte("\x89PNG\r\n\x1a\ngarbage-not-a-chunk"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		d    Descriptor
		code errors.Code
	}{
		{"empty ref", Descriptor{DisplayName: "x"}, errors.ErrCodeSourceUnreadable},
		{"text file", Descriptor{DisplayName: "readme.txt", Ref: text}, errors.ErrCodeUnsupportedMedia},
		{"corrupt image", Descriptor{DisplayName: "broken.png", Ref: broken}, errors.ErrCodeSourceUnreadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewFileOpener(nil).Open(context.Background(), tt.d)
			if !errors.Is(err, tt.code) {
				t.Errorf("Open() error = %v, want %s", err, tt.code)
			}
			if h != nil {
				t.Errorf("Open() handle = %v, want nil", h)
			}
		})
	}
}

func TestFileOpenerRegister(t *testing.T) {
	o := NewFileOpener(nil)
	if o.Supports("video/mp4") && len(extraDecoders) == 0 {
		t.Error("Supports(video/mp4) = true without a video decoder")
	}

	var called string
	o.Register("image/png", func(_ context.Context, d Descriptor, mime string, _ *log.Logger) (Handle, error) {
		called = mime
		return NewStatic(image.NewRGBA(image.Rect(0, 0, 1, 1))), nil
	})
	d, err := Describe(writePNG(t, t.TempDir(), "p.png", 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	h, err := o.Open(context.Background(), d)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, ok := h.(*Static); !ok {
		t.Errorf("Open() handle = %T, want *Static from the longer prefix", h)
	}
	if called != "image/png" {
		t.Errorf("decoder mime = %q, want image/png", called)
	}
}

func TestGIFPlayback(t *testing.T) {
	data, err := os.ReadFile(writeGIF(t, t.TempDir(), "anim.gif", 3, 10))
	if err != nil {
		t.Fatal(err)
	}
	frames, delays, err := decodeFrames(context.Background(), data)
	if err != nil {
		t.Fatalf("decodeFrames() error: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("decodeFrames() frames = %d, want 3", len(frames))
	}
	for i, d := range delays {
		if d != 100*time.Millisecond {
			t.Errorf("delays[%d] = %v, want 100ms", i, d)
		}
	}

	clock := time.Unix(0, 0)
	h := newImageHandle(func() time.Time { return clock })
	h.load(frames, delays, nil)

	if got := h.Frame(); got != frames[0] {
		t.Error("Frame() at t=0 is not the first frame")
	}
	clock = clock.Add(150 * time.Millisecond)
	if got := h.Frame(); got != frames[1] {
		t.Error("Frame() at t=150ms is not the second frame")
	}

	h.SetPaused(true)
	clock = clock.Add(time.Second)
	if got := h.Frame(); got != frames[1] {
		t.Error("paused Frame() advanced")
	}

	h.SetPaused(false)
	clock = clock.Add(100 * time.Millisecond)
	if got := h.Frame(); got != frames[2] {
		t.Error("Frame() after resume is not the third frame")
	}
	clock = clock.Add(100 * time.Millisecond)
	if got := h.Frame(); got != frames[0] {
		t.Error("Frame() did not loop back to the first frame")
	}
}

func TestImageHandleDecodeFailure(t *testing.T) {
	h := newImageHandle(time.Now)
	h.load(nil, nil, errors.New(errors.ErrCodeInternal, "boom"))
	if got := h.ReadyState(); got != HaveMetadata {
		t.Errorf("ReadyState() = %v, want %v", got, HaveMetadata)
	}
	if h.Frame() != nil {
		t.Error("Frame() != nil after failed decode")
	}
	if h.Err() == nil {
		t.Error("Err() = nil, want decode error")
	}
}

func TestSourceRelease(t *testing.T) {
	s := NewStatic(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	src := NewSource("id-1", Descriptor{DisplayName: "a", Ref: "a"}, s)
	if err := src.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if err := src.Release(); err != nil {
		t.Fatalf("second Release() error: %v", err)
	}
	if s.ReadyState() != HaveNothing {
		t.Error("Release() did not close the handle")
	}
	if got := src.Descriptor().DisplayName; got != "a" {
		t.Errorf("Descriptor().DisplayName = %q, want %q", got, "a")
	}
}

func TestReadFailures(t *testing.T) {
	f := newReadFailures(3)
	if f.fail() || f.fail() {
		t.Fatal("fail() gave up before the limit")
	}
	if got, want := f.delay(), 2*readRetryDelay; got != want {
		t.Errorf("delay() = %v, want %v", got, want)
	}
	f.ok()
	if f.delay() != 0 {
		t.Errorf("delay() after ok() = %v, want 0", f.delay())
	}
	for i := 0; i < 2; i++ {
		if f.fail() {
			t.Fatalf("fail() gave up after %d failures following ok()", i+1)
		}
	}
	if !f.fail() {
		t.Error("fail() did not give up at the limit")
	}

	if !newReadFailures(0).fail() {
		t.Error("a zero limit should give up on the first failure")
	}
}
