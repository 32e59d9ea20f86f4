package mirror

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/collage/pkg/errors"
	"github.com/matzehuels/collage/pkg/layout"
	"github.com/matzehuels/collage/pkg/media"
	"github.com/matzehuels/collage/pkg/session"
)

type countingOpener struct {
	mu     sync.Mutex
	opened map[string]*media.Static
}

func newCountingOpener() *countingOpener {
	return &countingOpener{opened: make(map[string]*media.Static)}
}

func (o *countingOpener) Open(_ context.Context, d media.Descriptor) (media.Handle, error) {
	if d.Ref == "bad" {
		return nil, errors.New(errors.ErrCodeSourceUnreadable, "cannot read %s", d.Ref)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	h := media.NewStatic(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	o.opened[d.Ref] = h
	return h, nil
}

func (o *countingOpener) handle(ref string) *media.Static {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened[ref]
}

func TestMirrorFollowsSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	primary := session.New(newCountingOpener())
	defer primary.Close()
	a, _ := primary.AddSource(ctx, media.Descriptor{DisplayName: "a", Ref: "a"})
	b, _ := primary.AddSource(ctx, media.Descriptor{DisplayName: "b", Ref: "b"})
	primary.SetLayout(layout.PictureInPicture)
	primary.SetSourceAudible(b.ID, true)

	opener := newCountingOpener()
	m := New(opener)
	defer m.Close()
	if err := m.Apply(ctx, primary.Snapshot()); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	scene := m.Scene()
	if scene.Kind != layout.PictureInPicture {
		t.Errorf("Kind = %v, want pip", scene.Kind)
	}
	if len(scene.Layers) != 2 || scene.Layers[0].ID != a.ID || scene.Layers[1].ID != b.ID {
		t.Fatalf("Layers = %+v, want [a b]", scene.Layers)
	}
	if !scene.Layers[0].Audible || !scene.Layers[1].Audible {
		t.Error("mirror did not copy the audio selection")
	}
	if !scene.Playing {
		t.Error("mirror is paused, want playing")
	}

	// The mirror owns separate handles.
	if scene.Layers[0].Handle == a.Handle {
		t.Error("mirror reused the primary handle")
	}

	primary.RemoveSource(a.ID)
	primary.SetPlaying(false)
	if err := m.Apply(ctx, primary.Snapshot()); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if opener.handle("a").ReadyState() != media.HaveNothing {
		t.Error("mirror kept the removed source's handle open")
	}
	if !opener.handle("b").Paused() {
		t.Error("mirror handle not paused")
	}
}

func TestMirrorIgnoresStaleSnapshots(t *testing.T) {
	ctx := context.Background()
	m := New(newCountingOpener())
	defer m.Close()

	m.Apply(ctx, session.Snapshot{Seq: 5, Layout: layout.Featured})
	m.Apply(ctx, session.Snapshot{Seq: 3, Layout: layout.Grid})
	if got := m.Scene().Kind; got != layout.Featured {
		t.Errorf("Kind = %v, want featured", got)
	}

	// A repeated sequence number is not newer either.
	m.Apply(ctx, session.Snapshot{Seq: 5, Layout: layout.SideBySide})
	if got := m.Scene().Kind; got != layout.Featured {
		t.Errorf("Kind after equal Seq = %v, want featured", got)
	}

	m.Apply(ctx, session.Snapshot{Seq: 6, Layout: layout.StackedRows})
	if got := m.Scene().Kind; got != layout.StackedRows {
		t.Errorf("Kind = %v, want stacked-rows", got)
	}
}

func TestMirrorSkipsUnreadable(t *testing.T) {
	m := New(newCountingOpener())
	defer m.Close()
	err := m.Apply(context.Background(), session.Snapshot{Sources: []session.SourceRef{
		{ID: "1", DisplayName: "ok", Ref: "ok"},
		{ID: "2", DisplayName: "bad", Ref: "bad"},
	}})
	if !errors.Is(err, errors.ErrCodeSourceUnreadable) {
		t.Errorf("Apply() error = %v, want SOURCE_UNREADABLE", err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMirrorRun(t *testing.T) {
	primary := session.New(newCountingOpener())
	defer primary.Close()
	snaps, cancelSub := primary.Subscribe()

	opener := newCountingOpener()
	m := New(opener)
	defer m.Close()

	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background(), snaps) }()

	primary.AddSource(context.Background(), media.Descriptor{DisplayName: "a", Ref: "a"})
	deadline := time.Now().Add(5 * time.Second)
	for m.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("mirror never picked up the new source")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancelSub()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on channel close", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after the channel closed")
	}
}

func TestMirrorRunStopsOnContext(t *testing.T) {
	m := New(newCountingOpener())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx, make(chan session.Snapshot)); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if err := m.Apply(context.Background(), session.Snapshot{}); !errors.Is(err, errors.ErrCodeClosed) {
		t.Errorf("Apply after Close error = %v, want CLOSED", err)
	}
}
