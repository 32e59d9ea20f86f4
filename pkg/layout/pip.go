package layout

// PiPMargin is the gap in pixels between picture-in-picture insets and the
// canvas edge.
const PiPMargin = 10.0

func pipPositions(count int, width, height float64) []Rect {
	positions := make([]Rect, 0, count)
	positions = append(positions, full(width, height))

	insetWidth := width / 4
	insetHeight := height / 4
	const m = PiPMargin

	corners := []Rect{
		{X: width - insetWidth - m, Y: height - insetHeight - m}, // bottom right
		{X: m, Y: height - insetHeight - m},                      // bottom left
		{X: width - insetWidth - m, Y: m},                        // top right
	}
	for i := 0; i < len(corners) && len(positions) < count; i++ {
		r := corners[i]
		r.Width, r.Height = insetWidth, insetHeight
		positions = append(positions, clip(r, width, height))
	}

	// Remaining panes tile a two-column strip anchored top-left. The stride
	// is based on half the canvas while the tiles are half that size again.
	strideWidth := width/2 - 2*m
	strideHeight := height/2 - 2*m
	for i := 0; len(positions) < count; i++ {
		r := Rect{
			X:      m + float64(i%2)*(strideWidth+m),
			Y:      m + float64(i/2)*(strideHeight+m),
			Width:  strideWidth / 2,
			Height: strideHeight / 2,
		}
		positions = append(positions, clip(r, width, height))
	}
	return positions
}
