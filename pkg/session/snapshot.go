package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/collage/pkg/audio"
	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
	"github.com/matzehuels/collage/pkg/media"
)

// SourceRef identifies a source in a Snapshot. Ref is enough for another
// surface to open its own handle for the same media.
type SourceRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Ref         string `json:"ref"`
	ByteSize    int64  `json:"byte_size,omitempty"`
}

// Descriptor returns the descriptor used to reopen the source.
func (r SourceRef) Descriptor() media.Descriptor {
	return media.Descriptor{DisplayName: r.DisplayName, ByteSize: r.ByteSize, Ref: r.Ref}
}

// Snapshot is the serializable session state pushed to secondary surfaces.
// Seq increases with every mutation of the session it came from.
type Snapshot struct {
	Seq     uint64       `json:"seq"`
	Sources []SourceRef  `json:"sources"`
	Layout  layout.Kind  `json:"layout"`
	Audio   audio.Config `json:"audio"`
	Playing bool         `json:"playing"`
}

// IDs returns the source ids in slot order.
func (s Snapshot) IDs() []string {
	ids := make([]string, len(s.Sources))
	for i, src := range s.Sources {
		ids[i] = src.ID
	}
	return ids
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	refs := make([]SourceRef, len(c.sources))
	for i, src := range c.sources {
		refs[i] = SourceRef{ID: src.ID, DisplayName: src.DisplayName, Ref: src.Ref, ByteSize: src.ByteSize}
	}
	return Snapshot{
		Seq:     c.seq,
		Sources: refs,
		Layout:  c.kind,
		Audio:   c.routing.Config(),
		Playing: c.playing,
	}
}

// Subscribe returns a channel receiving a Snapshot after every mutation,
// starting with the current state. A slow reader only ever sees the most
// recent snapshot; intermediate ones are dropped. cancel closes the
// channel. Closing the controller closes all channels.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.snapshotLocked()

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publishLocked replaces whatever is pending in each subscriber's buffer
// with the latest snapshot. Only the controller sends, always under c.mu,
// so the drain-then-send never blocks.
func (c *Controller) publishLocked() {
	c.seq++
	if len(c.subs) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// SaveSnapshot writes snap to path as indented JSON. The file is replaced
// atomically.
func SaveSnapshot(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeSourceUnreadable, err, "read snapshot %s", path)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse snapshot %s", path)
	}
	return snap, nil
}
