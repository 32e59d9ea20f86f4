package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/collage/pkg/observability"
)

// debugHooks logs render and session events. Frames are not logged
// individually; the loop runs at the canvas frame rate.
type debugHooks struct {
	logger *log.Logger
}

// RegisterDebugHooks routes observability events to the CLI logger at
// debug level.
func (c *CLI) RegisterDebugHooks() {
	h := debugHooks{logger: c.Logger}
	observability.SetRenderHooks(h)
	observability.SetSessionHooks(h)
}

func (h debugHooks) OnRenderStart(kind string) {
	h.logger.Debug("render started", "layout", kind)
}

func (h debugHooks) OnRenderStop(frames uint64) {
	h.logger.Debug("render stopped", "frames", frames)
}

func (debugHooks) OnFrame(int, int, int, time.Duration) {}

func (h debugHooks) OnDrawError(sourceID string, err error) {
	h.logger.Debug("draw failed", "source", sourceID, "err", err)
}

func (h debugHooks) OnSourceAdded(_ context.Context, sourceID, displayName string, err error) {
	if err != nil {
		h.logger.Debug("source rejected", "name", displayName, "err", err)
		return
	}
	h.logger.Debug("source added", "id", sourceID, "name", displayName)
}

func (h debugHooks) OnSourceRemoved(sourceID string) {
	h.logger.Debug("source removed", "id", sourceID)
}

func (h debugHooks) OnLayoutChanged(kind string) {
	h.logger.Debug("layout changed", "layout", kind)
}

func (h debugHooks) OnAudioChanged(globallyMuted bool, audible int) {
	h.logger.Debug("audio changed", "muted", globallyMuted, "audible", audible)
}
