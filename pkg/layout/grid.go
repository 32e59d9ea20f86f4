package layout

// GridDimensions returns the (columns, rows) used by the grid policy for
// count panes: 1→1x1, 2→2x1, 3-4→2x2, 5-6→3x2, 7-9→3x3, then four columns
// with as many rows as needed.
func GridDimensions(count int) (columns, rows int) {
	switch {
	case count <= 1:
		return 1, 1
	case count <= 2:
		return 2, 1
	case count <= 4:
		return 2, 2
	case count <= 6:
		return 3, 2
	case count <= 9:
		return 3, 3
	default:
		return 4, (count + 3) / 4
	}
}

func gridPositions(count int, width, height float64) []Rect {
	columns, rows := GridDimensions(count)
	cells := gridCells(columns, rows, width, height)
	return cells[:count]
}

// gridCells partitions the canvas into a uniform columns x rows grid in
// row-major order.
func gridCells(columns, rows int, width, height float64) []Rect {
	cellWidth := width / float64(columns)
	cellHeight := height / float64(rows)

	cells := make([]Rect, 0, columns*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			r := Rect{
				X:      float64(col) * cellWidth,
				Y:      float64(row) * cellHeight,
				Width:  cellWidth,
				Height: cellHeight,
			}
			// The last column and row end exactly on the canvas edge.
			if col == columns-1 {
				r.Width = extent(r.X, width)
			}
			if row == rows-1 {
				r.Height = extent(r.Y, height)
			}
			cells = append(cells, r)
		}
	}
	return cells
}
