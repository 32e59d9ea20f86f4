package media

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/h2non/filetype"

	"github.com/matzehuels/collage/pkg/errors"
)

// headerSize is the number of leading bytes filetype needs to match every
// format it knows.
const headerSize = 262

// DecodeFunc opens a handle for a descriptor whose content has already been
// identified as the given MIME type.
type DecodeFunc func(ctx context.Context, d Descriptor, mime string, logger *log.Logger) (Handle, error)

// FileOpener opens files from disk, choosing a decoder by sniffed MIME type.
type FileOpener struct {
	mu       sync.RWMutex
	decoders map[string]DecodeFunc
	logger   *log.Logger
}

// extraDecoders holds decoders contributed by optional build tags.
var extraDecoders = map[string]DecodeFunc{}

// NewFileOpener returns an opener that decodes images and, when built
// with the ffmpeg tag, video files.
func NewFileOpener(logger *log.Logger) *FileOpener {
	if logger == nil {
		logger = log.Default()
	}
	o := &FileOpener{
		decoders: make(map[string]DecodeFunc),
		logger:   logger,
	}
	o.Register("image/", decodeImage)
	for prefix, fn := range extraDecoders {
		o.Register(prefix, fn)
	}
	return o
}

// Register installs fn for MIME types starting with prefix, e.g. "image/"
// or "video/mp4". Longer prefixes win over shorter ones.
func (o *FileOpener) Register(prefix string, fn DecodeFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.decoders[prefix] = fn
}

// Supports reports whether a decoder is registered for mime.
func (o *FileOpener) Supports(mime string) bool {
	_, ok := o.lookup(mime)
	return ok
}

func (o *FileOpener) lookup(mime string) (DecodeFunc, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var (
		best    DecodeFunc
		bestLen = -1
	)
	for prefix, fn := range o.decoders {
		if strings.HasPrefix(mime, prefix) && len(prefix) > bestLen {
			best, bestLen = fn, len(prefix)
		}
	}
	return best, best != nil
}

// Open sniffs d.Ref and hands it to the matching decoder.
func (o *FileOpener) Open(ctx context.Context, d Descriptor) (Handle, error) {
	if err := d.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "invalid descriptor")
	}
	mime, err := Sniff(d.Ref)
	if err != nil {
		return nil, err
	}
	fn, ok := o.lookup(mime)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupportedMedia, "%s: no decoder for %s", d.DisplayName, mime)
	}
	o.logger.Debug("opening source", "source", d.DisplayName, "mime", mime)
	return fn(ctx, d, mime, o.logger)
}

// Sniff returns the MIME type of the file at path from its leading bytes.
func Sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSourceUnreadable, err, "open %s", path)
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", errors.Wrap(errors.ErrCodeSourceUnreadable, err, "read %s", path)
	}
	kind, err := filetype.Match(header[:n])
	if err != nil || kind == filetype.Unknown {
		return "", errors.New(errors.ErrCodeUnsupportedMedia, "%s: unrecognized file type", path)
	}
	return kind.MIME.Value, nil
}

func decodeImage(ctx context.Context, d Descriptor, _ string, logger *log.Logger) (Handle, error) {
	h, err := OpenImage(ctx, d, logger)
	if err != nil {
		return nil, err
	}
	return h, nil
}

var _ Opener = (*FileOpener)(nil)
