package composite

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/observability"
)

// State is the renderer lifecycle state.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger. Draw errors are logged at debug level.
func WithLogger(l *log.Logger) Option { return func(r *Renderer) { r.logger = l } }

// WithFPS sets the tick rate of the default ticker.
func WithFPS(fps int) Option { return func(r *Renderer) { r.fps = fps } }

// WithTicker replaces the default time-based ticker. newTicker is called on
// every Start.
func WithTicker(newTicker func() Ticker) Option {
	return func(r *Renderer) { r.newTicker = newTicker }
}

// WithOnFrame registers fn to run on the render goroutine after each tick.
// fn must not call Stop.
func WithOnFrame(fn func(Stats)) Option { return func(r *Renderer) { r.onFrame = fn } }

// WithHooks overrides the globally registered render hooks.
func WithHooks(h observability.RenderHooks) Option { return func(r *Renderer) { r.hooks = h } }

// Renderer runs the compositing loop.
type Renderer struct {
	logger    *log.Logger
	fps       int
	newTicker func() Ticker
	onFrame   func(Stats)
	hooks     observability.RenderHooks

	mu      sync.Mutex
	state   State
	src     SceneSource
	surface Surface
	stop    chan struct{}
	done    chan struct{}

	frames     atomic.Uint64
	drawErrors atomic.Uint64
}

// NewRenderer returns a stopped renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.newTicker == nil {
		d := interval(r.fps)
		r.newTicker = func() Ticker { return NewTicker(d) }
	}
	return r
}

// Start begins compositing scenes from src onto surface. Starting a running
// renderer with the same source and surface does nothing; with a different
// one, the loop is restarted on the new pair.
func (r *Renderer) Start(src SceneSource, surface Surface) error {
	if src == nil || surface == nil {
		return errors.New(errors.ErrCodeInvalidInput, "renderer needs a scene source and a surface")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Running {
		if same(r.src, src) && same(r.surface, surface) {
			return nil
		}
		r.stopLocked()
	}

	r.src, r.surface = src, surface
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	r.state = Running

	ticker := r.newTicker()
	hooks := r.hookSet()
	hooks.OnRenderStart(src.Scene().Kind.String())
	r.logger.Debug("renderer started")
	go r.loop(src, surface, ticker, r.stop, r.done)
	return nil
}

// Stop halts the loop and waits for it to exit. No draw reaches the surface
// after Stop returns. Stopping a stopped renderer does nothing.
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Stopped {
		return
	}
	r.stopLocked()
}

func (r *Renderer) stopLocked() {
	close(r.stop)
	<-r.done
	r.state = Stopped
	r.src, r.surface = nil, nil
	frames := r.frames.Load()
	r.hookSet().OnRenderStop(frames)
	r.logger.Debug("renderer stopped", "frames", frames)
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Frames returns the number of ticks composited since the renderer was
// created.
func (r *Renderer) Frames() uint64 { return r.frames.Load() }

// DrawErrors returns the number of layer draw errors seen so far.
func (r *Renderer) DrawErrors() uint64 { return r.drawErrors.Load() }

func (r *Renderer) hookSet() observability.RenderHooks {
	if r.hooks != nil {
		return r.hooks
	}
	return observability.Render()
}

func (r *Renderer) loop(src SceneSource, surface Surface, ticker Ticker, stop, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			select {
			case <-stop:
				return
			default:
			}
			r.tick(src, surface)
		}
	}
}

func (r *Renderer) tick(src SceneSource, surface Surface) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("compositing tick panicked", "panic", p)
		}
	}()

	start := time.Now()
	stats := Compose(surface, src.Scene())
	r.frames.Add(1)

	hooks := r.hookSet()
	for _, e := range stats.Errors {
		r.drawErrors.Add(1)
		r.logger.Debug("layer skipped", "source", e.ID, "err", e.Err)
		hooks.OnDrawError(e.ID, e.Err)
	}
	hooks.OnFrame(stats.Layers, stats.Drawn, stats.Skipped, time.Since(start))
	if r.onFrame != nil {
		r.onFrame(stats)
	}
}

// same compares two interface values without panicking on uncomparable
// dynamic types such as SceneFunc; those never count as the same.
func same(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}
