package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/collage/pkg/observability"
)

func TestRegisterDebugHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogDebug)
	c.RegisterDebugHooks()

	observability.Session().OnSourceAdded(context.Background(), "s1", "clip.gif", nil)
	observability.Session().OnSourceAdded(context.Background(), "", "broken.mp4", errors.New("no decoder"))
	observability.Render().OnDrawError("s1", errors.New("nil frame"))
	observability.Render().OnFrame(2, 2, 0, 0)

	out := buf.String()
	for _, want := range []string{"source added", "clip.gif", "source rejected", "no decoder", "draw failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") != 3 {
		t.Errorf("got %d log lines, want 3:\n%s", strings.Count(out, "\n"), out)
	}
}
