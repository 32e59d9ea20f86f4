package composite

import (
	"sync"
	"time"
)

// DefaultFPS is the renderer cadence when none is configured.
const DefaultFPS = 60

// Ticker delivers ticks to the render loop.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewTicker returns a Ticker backed by time.Ticker.
func NewTicker(interval time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(interval)}
}

type timeTicker struct{ t *time.Ticker }

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }

// ManualTicker ticks only when told to. It drives a Renderer
// deterministically in tests and in one-shot tools.
type ManualTicker struct {
	c        chan time.Time
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewManualTicker returns a ticker that holds at most one pending tick.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{c: make(chan time.Time, 1), stopped: make(chan struct{})}
}

func (t *ManualTicker) C() <-chan time.Time { return t.c }

// Stop marks the ticker stopped. Later calls to Tick report false.
func (t *ManualTicker) Stop() {
	t.stopOnce.Do(func() { close(t.stopped) })
}

// Tick queues one tick. It reports false if the ticker is stopped or a tick
// is already pending.
func (t *ManualTicker) Tick() bool {
	select {
	case <-t.stopped:
		return false
	default:
	}
	select {
	case t.c <- time.Now():
		return true
	default:
		return false
	}
}

func interval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
