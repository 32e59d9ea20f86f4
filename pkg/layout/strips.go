package layout

func sideBySidePositions(count int, width, height float64) []Rect {
	if count == 1 {
		return []Rect{full(width, height)}
	}
	stripWidth := width / float64(count)
	positions := make([]Rect, count)
	for i := range positions {
		positions[i] = Rect{X: float64(i) * stripWidth, Y: 0, Width: stripWidth, Height: height}
	}
	last := &positions[count-1]
	last.Width = extent(last.X, width)
	return positions
}

func stackedRowsPositions(count int, width, height float64) []Rect {
	if count == 1 {
		return []Rect{full(width, height)}
	}
	rowHeight := height / float64(count)
	positions := make([]Rect, count)
	for i := range positions {
		positions[i] = Rect{X: 0, Y: float64(i) * rowHeight, Width: width, Height: rowHeight}
	}
	last := &positions[count-1]
	last.Height = extent(last.Y, height)
	return positions
}

// featuredPositions gives the first pane the left two thirds of the canvas
// and stacks the others in the remaining right column.
func featuredPositions(count int, width, height float64) []Rect {
	if count == 1 {
		return []Rect{full(width, height)}
	}
	featuredWidth := width * 2 / 3
	sidebarWidth := extent(featuredWidth, width)
	sidebarHeight := height / float64(count-1)

	positions := make([]Rect, count)
	positions[0] = Rect{X: 0, Y: 0, Width: featuredWidth, Height: height}
	for i := 1; i < count; i++ {
		positions[i] = Rect{
			X:      featuredWidth,
			Y:      float64(i-1) * sidebarHeight,
			Width:  sidebarWidth,
			Height: sidebarHeight,
		}
	}
	last := &positions[count-1]
	last.Height = extent(last.Y, height)
	return positions
}
