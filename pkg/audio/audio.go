// Package audio tracks which collage sources are audible.
//
// A source plays sound only when the collage is not globally muted and the
// source has been explicitly selected. The two settings are independent:
// toggling the global mute never rewrites the selection, and selecting a
// source never clears the global mute.
//
//	r := audio.NewRouting()
//	r.SetSourceAudible("a", true)
//	r.ToggleGlobalMute() // "a" silent, still selected
//	r.ToggleGlobalMute() // "a" audible again
package audio

import (
	"slices"
	"sync"
)

// Config is an immutable snapshot of the routing state.
type Config struct {
	GloballyMuted bool     `json:"globally_muted"`
	Audible       []string `json:"audible_source_ids"`
}

// IsAudible reports whether id is heard under this configuration.
func (c Config) IsAudible(id string) bool {
	return !c.GloballyMuted && slices.Contains(c.Audible, id)
}

// Selected reports whether id is in the audible selection, regardless of
// the global mute.
func (c Config) Selected(id string) bool {
	return slices.Contains(c.Audible, id)
}

// Routing is the mutable audio routing state of a collage session.
// It is safe for concurrent use.
type Routing struct {
	mu      sync.RWMutex
	muted   bool
	audible map[string]struct{}
}

// NewRouting returns an unmuted routing with no audible sources.
func NewRouting() *Routing {
	return &Routing{audible: make(map[string]struct{})}
}

// ToggleGlobalMute flips the global mute. The audible selection is kept as
// is in both directions; unmuting never picks a source on its own.
func (r *Routing) ToggleGlobalMute() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = !r.muted
}

// SetGlobalMute sets the global mute explicitly.
func (r *Routing) SetGlobalMute(muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = muted
}

// GloballyMuted reports the global mute.
func (r *Routing) GloballyMuted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.muted
}

// SetSourceAudible adds id to or removes it from the audible selection.
// The global mute is not touched.
func (r *Routing) SetSourceAudible(id string, audible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if audible {
		r.audible[id] = struct{}{}
	} else {
		delete(r.audible, id)
	}
}

// ToggleSource flips whether id is selected and returns the new selection
// state.
func (r *Routing) ToggleSource(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.audible[id]; ok {
		delete(r.audible, id)
		return false
	}
	r.audible[id] = struct{}{}
	return true
}

// RemoveSource drops id from the audible selection. Unknown ids are ignored.
func (r *Routing) RemoveSource(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.audible, id)
}

// Retain drops every selected id that is not in live.
func (r *Routing) Retain(live []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.audible {
		if !slices.Contains(live, id) {
			delete(r.audible, id)
		}
	}
}

// HasSelection reports whether any source is selected.
func (r *Routing) HasSelection() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.audible) > 0
}

// IsAudible reports whether id is currently heard.
func (r *Routing) IsAudible(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.muted {
		return false
	}
	_, ok := r.audible[id]
	return ok
}

// Reset returns to the unmuted, nothing-selected state.
func (r *Routing) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = false
	clear(r.audible)
}

// Config returns a snapshot. Audible ids are sorted.
func (r *Routing) Config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.audible))
	for id := range r.audible {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return Config{GloballyMuted: r.muted, Audible: ids}
}

// Apply replaces the routing state with c.
func (r *Routing) Apply(c Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.muted = c.GloballyMuted
	clear(r.audible)
	for _, id := range c.Audible {
		r.audible[id] = struct{}{}
	}
}
