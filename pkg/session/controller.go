package session

import (
	"context"
	stderrors "errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/collage/pkg/audio"
	"github.com/matzehuels/collage/pkg/composite"
	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
	"github.com/matzehuels/collage/pkg/media"
	"github.com/matzehuels/collage/pkg/observability"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithLayout sets the initial layout kind.
func WithLayout(k layout.Kind) Option { return func(c *Controller) { c.kind = k } }

// WithGlobalMute sets the initial global mute.
func WithGlobalMute(muted bool) Option {
	return func(c *Controller) { c.routing.SetGlobalMute(muted) }
}

// WithPaused starts the session paused.
func WithPaused() Option { return func(c *Controller) { c.playing = false } }

// WithIDs replaces the uuid source id generator.
func WithIDs(newID func() string) Option { return func(c *Controller) { c.newID = newID } }

// WithHooks overrides the globally registered session hooks.
func WithHooks(h observability.SessionHooks) Option { return func(c *Controller) { c.hooks = h } }

// Controller is the collage session. It is safe for concurrent use.
type Controller struct {
	opener media.Opener
	logger *log.Logger
	hooks  observability.SessionHooks
	newID  func() string

	mu      sync.Mutex
	sources []*media.Source
	kind    layout.Kind
	routing *audio.Routing
	playing bool
	closed  bool
	seq     uint64

	subs    map[int]chan Snapshot
	nextSub int
}

// New returns an empty, playing session that opens sources with opener.
func New(opener media.Opener, opts ...Option) *Controller {
	c := &Controller{
		opener:  opener,
		newID:   uuid.NewString,
		kind:    layout.Grid,
		routing: audio.NewRouting(),
		playing: true,
		subs:    make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if !c.kind.Valid() {
		c.kind = layout.Grid
	}
	return c
}

func (c *Controller) hookSet() observability.SessionHooks {
	if c.hooks != nil {
		return c.hooks
	}
	return observability.Session()
}

// AddSource opens d and appends it as the last slot. If no source is
// selected for audio yet, the new one becomes audible.
//
// Any open failure is reported as SOURCE_UNREADABLE and leaves the session
// unchanged.
func (c *Controller) AddSource(ctx context.Context, d media.Descriptor) (*media.Source, error) {
	if c.isClosed() {
		return nil, errors.New(errors.ErrCodeClosed, "session is closed")
	}
	h, err := c.opener.Open(ctx, d)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeSourceUnreadable) {
			err = errors.Wrap(errors.ErrCodeSourceUnreadable, err, "cannot open %s", d.DisplayName)
		}
		c.logger.Warn("source not added", "source", d.DisplayName, "err", err)
		c.hookSet().OnSourceAdded(ctx, "", d.DisplayName, err)
		return nil, err
	}
	if h == nil {
		err := errors.New(errors.ErrCodeSourceUnreadable, "opener returned no handle for %s", d.DisplayName)
		c.hookSet().OnSourceAdded(ctx, "", d.DisplayName, err)
		return nil, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		h.Close()
		return nil, errors.New(errors.ErrCodeClosed, "session is closed")
	}
	src := media.NewSource(c.newID(), d, h)
	c.sources = append(c.sources, src)
	if !c.routing.HasSelection() {
		c.routing.SetSourceAudible(src.ID, true)
	}
	h.SetPaused(!c.playing)
	h.SetMuted(!c.routing.IsAudible(src.ID))
	c.publishLocked()
	c.mu.Unlock()

	c.logger.Debug("source added", "source", src.ID, "name", src.DisplayName)
	c.hookSet().OnSourceAdded(ctx, src.ID, src.DisplayName, nil)
	return src, nil
}

// AddSources adds each descriptor in order. Unreadable ones are skipped;
// their errors are joined in the returned error.
func (c *Controller) AddSources(ctx context.Context, ds ...media.Descriptor) ([]*media.Source, error) {
	var (
		added []*media.Source
		errs  []error
	)
	for _, d := range ds {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		src, err := c.AddSource(ctx, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		added = append(added, src)
	}
	return added, stderrors.Join(errs...)
}

// RemoveSource drops the source, closes its handle and removes it from the
// audio selection. Remaining sources keep their relative order.
func (c *Controller) RemoveSource(id string) error {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeSourceNotFound, "no source with id %q", id)
	}
	src := c.sources[i]
	c.sources = slices.Delete(c.sources, i, i+1)
	c.routing.RemoveSource(id)
	c.publishLocked()
	c.mu.Unlock()

	if err := src.Release(); err != nil {
		c.logger.Debug("closing handle failed", "source", id, "err", err)
	}
	c.logger.Debug("source removed", "source", id)
	c.hookSet().OnSourceRemoved(id)
	return nil
}

// MoveSource moves the source to position index, shifting the others.
func (c *Controller) MoveSource(id string, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return errors.New(errors.ErrCodeSourceNotFound, "no source with id %q", id)
	}
	if index < 0 || index >= len(c.sources) {
		return errors.New(errors.ErrCodeInvalidInput, "position %d out of range [0,%d)", index, len(c.sources))
	}
	if i == index {
		return nil
	}
	src := c.sources[i]
	c.sources = slices.Insert(slices.Delete(c.sources, i, i+1), index, src)
	c.publishLocked()
	return nil
}

// SetLayout switches the layout kind. Positions change from the next tick;
// playback and audio are untouched.
func (c *Controller) SetLayout(k layout.Kind) error {
	if !k.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "unknown layout kind %d", int(k))
	}
	c.mu.Lock()
	changed := c.kind != k
	c.kind = k
	if changed {
		c.publishLocked()
	}
	c.mu.Unlock()
	if changed {
		c.hookSet().OnLayoutChanged(k.String())
	}
	return nil
}

// CycleLayout advances to the next layout kind and returns it.
func (c *Controller) CycleLayout() layout.Kind {
	c.mu.Lock()
	next := c.kind.Next()
	c.mu.Unlock()
	c.SetLayout(next)
	return next
}

// Layout returns the current layout kind.
func (c *Controller) Layout() layout.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

// ToggleGlobalMute flips the global mute and returns the new value. The
// audible selection is preserved.
func (c *Controller) ToggleGlobalMute() bool {
	c.mu.Lock()
	c.routing.ToggleGlobalMute()
	c.applyAudioLocked()
	muted := c.routing.GloballyMuted()
	c.mu.Unlock()
	c.audioChanged()
	return muted
}

// SetGlobalMute sets the global mute.
func (c *Controller) SetGlobalMute(muted bool) {
	c.mu.Lock()
	c.routing.SetGlobalMute(muted)
	c.applyAudioLocked()
	c.mu.Unlock()
	c.audioChanged()
}

// SetSourceAudible adds or removes a live source from the audio selection.
// The global mute is never changed.
func (c *Controller) SetSourceAudible(id string, audible bool) error {
	c.mu.Lock()
	if c.indexLocked(id) < 0 {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeSourceNotFound, "no source with id %q", id)
	}
	c.routing.SetSourceAudible(id, audible)
	c.applyAudioLocked()
	c.mu.Unlock()
	c.audioChanged()
	return nil
}

// ToggleSourceAudible flips a source's membership in the audio selection
// and reports whether it is now selected.
func (c *Controller) ToggleSourceAudible(id string) (bool, error) {
	c.mu.Lock()
	if c.indexLocked(id) < 0 {
		c.mu.Unlock()
		return false, errors.New(errors.ErrCodeSourceNotFound, "no source with id %q", id)
	}
	selected := c.routing.ToggleSource(id)
	c.applyAudioLocked()
	c.mu.Unlock()
	c.audioChanged()
	return selected, nil
}

// AudioConfig returns the current audio routing.
func (c *Controller) AudioConfig() audio.Config { return c.routing.Config() }

// SetPlaying plays or pauses every source together.
func (c *Controller) SetPlaying(playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing == playing {
		return
	}
	c.playing = playing
	for _, src := range c.sources {
		src.Handle.SetPaused(!playing)
	}
	c.publishLocked()
}

// TogglePlaying flips play/pause and returns whether the session now plays.
func (c *Controller) TogglePlaying() bool {
	c.mu.Lock()
	playing := !c.playing
	c.mu.Unlock()
	c.SetPlaying(playing)
	return playing
}

// Playing reports whether the session plays.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Sources returns the live sources in slot order.
func (c *Controller) Sources() []*media.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sources)
}

// Source returns the live source with the given id.
func (c *Controller) Source(id string) (*media.Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.sources[i], true
	}
	return nil, false
}

// Len returns the number of live sources.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

// Scene returns a copy of the state the compositor draws from.
func (c *Controller) Scene() composite.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	layers := make([]composite.Layer, len(c.sources))
	for i, src := range c.sources {
		layers[i] = composite.Layer{
			ID:      src.ID,
			Handle:  src.Handle,
			Audible: c.routing.IsAudible(src.ID),
		}
	}
	return composite.Scene{Layers: layers, Kind: c.kind, Playing: c.playing}
}

// Reset releases every source and returns audio routing to unmuted with
// nothing selected. Layout and play state are kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	released := c.sources
	c.sources = nil
	c.routing.Reset()
	c.publishLocked()
	c.mu.Unlock()
	c.release(released)
	c.audioChanged()
}

// Close releases every source and closes all subscriptions. Later
// mutations fail with CLOSED or do nothing.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	released := c.sources
	c.sources = nil
	c.routing.Reset()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.mu.Unlock()
	c.release(released)
	return nil
}

func (c *Controller) release(sources []*media.Source) {
	for _, src := range sources {
		if err := src.Release(); err != nil {
			c.logger.Debug("closing handle failed", "source", src.ID, "err", err)
		}
		c.hookSet().OnSourceRemoved(src.ID)
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) indexLocked(id string) int {
	return slices.IndexFunc(c.sources, func(s *media.Source) bool { return s.ID == id })
}

// applyAudioLocked pushes the routing to the handles right away so audio
// follows even when no renderer is running.
func (c *Controller) applyAudioLocked() {
	for _, src := range c.sources {
		src.Handle.SetMuted(!c.routing.IsAudible(src.ID))
	}
	c.publishLocked()
}

func (c *Controller) audioChanged() {
	cfg := c.routing.Config()
	c.hookSet().OnAudioChanged(cfg.GloballyMuted, len(cfg.Audible))
}

var _ composite.SceneSource = (*Controller)(nil)
