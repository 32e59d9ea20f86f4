package cli

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/collage/pkg/layout"
)

// mapColumns is the width of the layout map in terminal cells.
const mapColumns = 48

// paneCells rasterizes rects onto a cols-wide character grid. Terminal
// cells are about twice as tall as wide, so rows are halved. Each cell
// holds the index of the topmost pane covering it, or -1.
func paneCells(rects []layout.Rect, width, height float64, cols int) [][]int {
	if width <= 0 || height <= 0 || cols <= 0 {
		return nil
	}
	rows := max(int(math.Round(float64(cols)*height/width/2)), 1)
	cells := make([][]int, rows)
	for y := range cells {
		cells[y] = make([]int, cols)
		for x := range cells[y] {
			cells[y][x] = -1
		}
	}

	scale := func(v, extent float64, n int) int {
		return min(max(int(math.Round(v/extent*float64(n))), 0), n)
	}
	for i, r := range rects {
		x0, x1 := scale(r.X, width, cols), scale(r.Right(), width, cols)
		y0, y1 := scale(r.Y, height, rows), scale(r.Bottom(), height, rows)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				cells[y][x] = i
			}
		}
	}
	return cells
}

// layoutMap draws the panes as tinted blocks labelled with their slot
// number. Later panes are drawn over earlier ones, matching draw order.
func layoutMap(rects []layout.Rect, width, height float64, cols int) string {
	cells := paneCells(rects, width, height, cols)
	if cells == nil {
		return ""
	}

	labelled := make(map[int]bool, len(rects))
	var b strings.Builder
	for y, row := range cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, i := range row {
			if i < 0 {
				b.WriteString(StyleDim.Render("·"))
				continue
			}
			if !labelled[i] {
				labelled[i] = true
				b.WriteString(paneStyle(i).Bold(true).Render(paneLabel(i)))
				continue
			}
			b.WriteString(paneStyle(i).Render("░"))
		}
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorDim).
		Render(b.String())
}

func paneLabel(i int) string {
	if i < 9 {
		return strconv.Itoa(i + 1)
	}
	return "+"
}
