package media

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/collage/pkg/errors"
)

// ReadyState reports how much of a handle's media is buffered. The levels
// mirror the HTML media element readiness scale.
type ReadyState int

const (
	HaveNothing ReadyState = iota
	HaveMetadata
	HaveCurrentData
	HaveFutureData
	HaveEnoughData
)

// String returns a short name for the state.
func (s ReadyState) String() string {
	switch s {
	case HaveNothing:
		return "nothing"
	case HaveMetadata:
		return "metadata"
	case HaveCurrentData:
		return "current"
	case HaveFutureData:
		return "future"
	case HaveEnoughData:
		return "enough"
	default:
		return "unknown"
	}
}

// CanPresent reports whether a frame can be drawn at this state.
func (s ReadyState) CanPresent() bool { return s >= HaveCurrentData }

// Handle is a decodable media resource.
//
// Implementations must be safe for concurrent use: decoders fill buffers on
// their own goroutines while the compositor polls from its loop.
type Handle interface {
	// Frame returns the frame to present now, or nil if none is buffered.
	Frame() image.Image
	// ReadyState reports buffering progress.
	ReadyState() ReadyState
	Muted() bool
	SetMuted(muted bool)
	Paused() bool
	SetPaused(paused bool)
	// Close releases the decoder. Further calls are no-ops.
	Close() error
}

// Descriptor is what the file selection layer hands over for one chosen
// file.
type Descriptor struct {
	DisplayName string    `json:"display_name"`
	ByteSize    int64     `json:"byte_size"`
	ModTime     time.Time `json:"last_modified"`
	// Ref locates the media: a file path for the built-in openers.
	Ref string `json:"ref"`
}

// Validate checks the descriptor fields an Opener relies on.
func (d Descriptor) Validate() error {
	if err := errors.ValidateRef(d.Ref); err != nil {
		return err
	}
	return errors.ValidateDisplayName(d.DisplayName)
}

// Describe builds a Descriptor for a file on disk.
func Describe(path string) (Descriptor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Descriptor{}, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "stat %s", path)
	}
	if info.IsDir() {
		return Descriptor{}, errors.New(errors.ErrCodeSourceUnreadable, "%s is a directory", path)
	}
	return Descriptor{
		DisplayName: filepath.Base(path),
		ByteSize:    info.Size(),
		ModTime:     info.ModTime(),
		Ref:         path,
	}, nil
}

// Opener turns descriptors into handles.
type Opener interface {
	Open(ctx context.Context, d Descriptor) (Handle, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, d Descriptor) (Handle, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, d Descriptor) (Handle, error) {
	return f(ctx, d)
}

// Source is a media file placed in a collage session.
type Source struct {
	ID          string
	DisplayName string
	ByteSize    int64
	ModTime     time.Time
	Ref         string
	Handle      Handle

	releaseOnce sync.Once
	releaseErr  error
}

// NewSource pairs a descriptor with its opened handle.
func NewSource(id string, d Descriptor, h Handle) *Source {
	return &Source{
		ID:          id,
		DisplayName: d.DisplayName,
		ByteSize:    d.ByteSize,
		ModTime:     d.ModTime,
		Ref:         d.Ref,
		Handle:      h,
	}
}

// Descriptor returns the descriptor the source was created from.
func (s *Source) Descriptor() Descriptor {
	return Descriptor{DisplayName: s.DisplayName, ByteSize: s.ByteSize, ModTime: s.ModTime, Ref: s.Ref}
}

// Release closes the underlying handle. It is safe to call more than once;
// later calls return the first result.
func (s *Source) Release() error {
	s.releaseOnce.Do(func() {
		if s.Handle != nil {
			s.releaseErr = s.Handle.Close()
		}
	})
	return s.releaseErr
}
