// Package mirror renders a second, independent view of a collage session.
//
// A [Mirror] follows a session through the snapshots it publishes. It opens
// its own handle for every source by reference, releases handles of
// sources that disappear, and presents the session's layout, audio routing
// and play state as a [composite.SceneSource] for its own renderer:
//
//	snaps, cancel := controller.Subscribe()
//	defer cancel()
//	m := mirror.New(media.NewFileOpener(logger))
//	defer m.Close()
//	renderer.Start(m, surface)
//	err := m.Run(ctx, snaps)
//
// The mirror never writes back to the session.
package mirror

import (
	"context"
	stderrors "errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/collage/pkg/audio"
	"github.com/matzehuels/collage/pkg/composite"
	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
	"github.com/matzehuels/collage/pkg/media"
	"github.com/matzehuels/collage/pkg/session"
)

// Option configures a Mirror.
type Option func(*Mirror)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(m *Mirror) { m.logger = l } }

// Mirror is a secondary display surface driven by session snapshots.
type Mirror struct {
	opener media.Opener
	logger *log.Logger

	applyMu sync.Mutex // serializes Apply

	mu      sync.RWMutex
	sources map[string]*media.Source
	order   []string
	kind    layout.Kind
	audio   audio.Config
	playing bool
	seq     uint64
	applied bool
	closed  bool
}

// New returns an empty mirror that opens sources with opener.
func New(opener media.Opener, opts ...Option) *Mirror {
	m := &Mirror{
		opener:  opener,
		sources: make(map[string]*media.Source),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	return m
}

// Run applies snapshots from ch until ctx is done or ch is closed. Failures
// to open individual sources are logged and leave those panes out.
func (m *Mirror) Run(ctx context.Context, ch <-chan session.Snapshot) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-ch:
			if !ok {
				return nil
			}
			if err := m.Apply(ctx, snap); err != nil {
				m.logger.Warn("mirror could not open every source", "err", err)
			}
		}
	}
}

// Apply reconciles the mirror with snap. Snapshots whose Seq is not newer
// than the last one applied are ignored.
func (m *Mirror) Apply(ctx context.Context, snap session.Snapshot) error {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	m.mu.RLock()
	closed, applied := m.closed, m.seq
	stale := m.applied && snap.Seq <= m.seq
	var missing []session.SourceRef
	for _, ref := range snap.Sources {
		if _, ok := m.sources[ref.ID]; !ok {
			missing = append(missing, ref)
		}
	}
	m.mu.RUnlock()
	if closed {
		return errors.New(errors.ErrCodeClosed, "mirror is closed")
	}
	if stale {
		m.logger.Debug("stale snapshot ignored", "seq", snap.Seq, "applied", applied)
		return nil
	}

	// Opening may be slow; keep the renderer's Scene calls unblocked.
	opened := make(map[string]*media.Source, len(missing))
	var errs []error
	for _, ref := range missing {
		h, err := m.opener.Open(ctx, ref.Descriptor())
		if err != nil {
			errs = append(errs, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "mirror %s", ref.DisplayName))
			continue
		}
		opened[ref.ID] = media.NewSource(ref.ID, ref.Descriptor(), h)
	}

	m.mu.Lock()
	live := snap.IDs()
	var released []*media.Source
	for id, src := range m.sources {
		if !slices.Contains(live, id) {
			released = append(released, src)
			delete(m.sources, id)
		}
	}
	for id, src := range opened {
		m.sources[id] = src
	}
	m.order = m.order[:0]
	for _, id := range live {
		if _, ok := m.sources[id]; ok {
			m.order = append(m.order, id)
		}
	}
	m.kind = snap.Layout
	m.audio = snap.Audio
	m.playing = snap.Playing
	m.seq, m.applied = snap.Seq, true
	for _, id := range m.order {
		h := m.sources[id].Handle
		h.SetMuted(!m.audio.IsAudible(id))
		h.SetPaused(!m.playing)
	}
	m.mu.Unlock()

	for _, src := range released {
		src.Release()
	}
	return stderrors.Join(errs...)
}

// Scene returns the mirrored state for the compositor.
func (m *Mirror) Scene() composite.Scene {
	m.mu.RLock()
	defer m.mu.RUnlock()
	layers := make([]composite.Layer, 0, len(m.order))
	for _, id := range m.order {
		layers = append(layers, composite.Layer{
			ID:      id,
			Handle:  m.sources[id].Handle,
			Audible: m.audio.IsAudible(id),
		})
	}
	return composite.Scene{Layers: layers, Kind: m.kind, Playing: m.playing}
}

// Len returns the number of mirrored sources.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Close releases every handle the mirror opened.
func (m *Mirror) Close() error {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()
	m.mu.Lock()
	m.closed = true
	released := make([]*media.Source, 0, len(m.sources))
	for _, src := range m.sources {
		released = append(released, src)
	}
	clear(m.sources)
	m.order = nil
	m.mu.Unlock()

	for _, src := range released {
		src.Release()
	}
	return nil
}

var _ composite.SceneSource = (*Mirror)(nil)
