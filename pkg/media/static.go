package media

import (
	"image"
	"sync"
)

// Static is a fixed-frame handle for embedders and tests: it presents one
// image until closed and never decodes anything. Files opened by
// [FileOpener] use [ImageHandle] instead.
type Static struct {
	mu     sync.RWMutex
	frame  image.Image
	muted  bool
	paused bool
	closed bool
}

// NewStatic returns a handle presenting img. A nil img yields a handle
// that never becomes ready.
func NewStatic(img image.Image) *Static {
	return &Static{frame: img}
}

// Frame returns the frame, or nil once closed.
func (s *Static) Frame() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}
	return s.frame
}

// ReadyState is HaveEnoughData while a frame is present.
func (s *Static) ReadyState() ReadyState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.frame == nil {
		return HaveNothing
	}
	return HaveEnoughData
}

func (s *Static) Muted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted
}

func (s *Static) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

func (s *Static) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

func (s *Static) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

func (s *Static) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.frame = nil
	return nil
}

var _ Handle = (*Static)(nil)
