package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/collage/pkg/layout"
)

func TestPaneCellsSideBySide(t *testing.T) {
	rects := layout.Compute(layout.SideBySide, 2, 1600, 900)
	cells := paneCells(rects, 1600, 900, 16)

	if len(cells) != 5 {
		t.Fatalf("rows = %d, want 5", len(cells))
	}
	for y, row := range cells {
		for x, i := range row {
			want := 0
			if x >= 8 {
				want = 1
			}
			if i != want {
				t.Errorf("cell (%d,%d) = %d, want %d", x, y, i, want)
			}
		}
	}
}

func TestPaneCellsPiPDrawsInsetOnTop(t *testing.T) {
	rects := layout.Compute(layout.PictureInPicture, 2, 1280, 720)
	cells := paneCells(rects, 1280, 720, 48)

	// The inset sits near the bottom-right corner.
	last := cells[len(cells)-2]
	if got := last[len(last)-3]; got != 1 {
		t.Errorf("bottom-right cell = %d, want inset 1", got)
	}
	if got := cells[0][0]; got != 0 {
		t.Errorf("top-left cell = %d, want main pane 0", got)
	}
}

func TestPaneCellsDegenerate(t *testing.T) {
	if cells := paneCells(nil, 0, 100, 10); cells != nil {
		t.Errorf("paneCells(zero width) = %v, want nil", cells)
	}
	cells := paneCells(nil, 100, 100, 10)
	for _, row := range cells {
		for _, i := range row {
			if i != -1 {
				t.Fatal("empty layout has covered cells")
			}
		}
	}
}

func TestLayoutMapLabelsPanes(t *testing.T) {
	out := layoutMap(layout.Compute(layout.Grid, 3, 1280, 720), 1280, 720, 24)
	for _, label := range []string{"1", "2", "3"} {
		if !strings.Contains(out, label) {
			t.Errorf("layoutMap() missing label %s", label)
		}
	}
	if !strings.Contains(out, "·") {
		t.Error("layoutMap() shows no empty cell for a grid of three")
	}
}
